package records

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/snaplocation/internal/dbx"
	"github.com/dmitrijs2005/snaplocation/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// Timestamps are stored as Unix nanoseconds.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func scanSQLite(s scanner) (models.LocationRecord, error) {
	var r models.LocationRecord
	var ts int64
	err := s.Scan(&r.ID, &ts, &r.Street, &r.Location, &r.Zipcode, &r.Latitude, &r.Longitude,
		&r.Altitude, &r.VerticalAccuracy, &r.HorizontalAccuracy, &r.ViewRadius, &r.PhotoReference)
	if err != nil {
		return r, err
	}
	r.Timestamp = time.Unix(0, ts)
	return r, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.LocationRecord) error {
	query := `INSERT INTO locations (` + columns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Timestamp.UnixNano(), rec.Street, rec.Location, rec.Zipcode, rec.Latitude, rec.Longitude,
		rec.Altitude, rec.VerticalAccuracy, rec.HorizontalAccuracy, rec.ViewRadius, rec.PhotoReference)
	if err != nil {
		return fmt.Errorf("failed to insert location: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.LocationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select locations: %w", err)
	}
	return queryMany(rows, scanSQLite)
}

func (r *SQLiteRepository) GetAt(ctx context.Context, index int) (*models.LocationRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM locations ORDER BY id LIMIT 1 OFFSET ?`, index)
	return queryOne(row, scanSQLite)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.LocationRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM locations WHERE id = ?`, id)
	return queryOne(row, scanSQLite)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM locations`); err != nil {
		return fmt.Errorf("failed to clear locations: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count locations: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) MaxID(ctx context.Context) (int64, bool, error) {
	var id sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(id) FROM locations`).Scan(&id); err != nil {
		return 0, false, fmt.Errorf("failed to select max id: %w", err)
	}
	return id.Int64, id.Valid, nil
}

func (r *SQLiteRepository) PhotoReferences(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT photo_reference FROM locations WHERE photo_reference <> '' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select photo references: %w", err)
	}
	return scanStrings(rows)
}
