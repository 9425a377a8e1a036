package records

import (
	"context"

	"github.com/dmitrijs2005/snaplocation/internal/models"
)

// Repository describes the queries the record store needs. Every listing is
// ordered by ascending id, which is also insertion order.
type Repository interface {
	// Insert stores r using r.ID as the primary key.
	Insert(ctx context.Context, r *models.LocationRecord) error

	// List returns all records.
	List(ctx context.Context) ([]models.LocationRecord, error)

	// GetAt returns the record at position index, or common.ErrorNotFound.
	GetAt(ctx context.Context, index int) (*models.LocationRecord, error)

	// GetByID returns the record with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.LocationRecord, error)

	// DeleteByID removes one record. Deleting a missing id is
	// common.ErrorNotFound.
	DeleteByID(ctx context.Context, id int64) error

	// DeleteAll removes every record.
	DeleteAll(ctx context.Context) error

	Count(ctx context.Context) (int, error)

	// MaxID returns the largest id; ok is false when the table is empty.
	MaxID(ctx context.Context) (id int64, ok bool, err error)

	// PhotoReferences returns every non-empty photo reference.
	PhotoReferences(ctx context.Context) ([]string, error)
}
