// Package photos stores rendered captures in a dedicated, lazily created
// album. Assets are hidden and addressed by a UUID reference. The album
// lives either in a local directory or in an S3-compatible bucket.
package photos

import (
	"context"

	"github.com/dmitrijs2005/snaplocation/internal/models"
)

// AlbumName is the album every capture is saved into.
const AlbumName = "Snap!Location"

// Backend is the storage behind a Store. Implementations must treat deletes
// of unknown references as no-ops and report missing assets as
// common.ErrorNotFound.
type Backend interface {
	// Authorized reports whether the user granted access to the library.
	Authorized(ctx context.Context) bool

	// EnsureAlbum resolves the album, creating it if needed. Idempotent.
	EnsureAlbum(ctx context.Context, album string) error

	Put(ctx context.Context, album string, asset models.Asset, data []byte) error
	Delete(ctx context.Context, album string, refs []string) error

	// List returns the album's assets ordered by creation time.
	List(ctx context.Context, album string) ([]models.Asset, error)
	Get(ctx context.Context, album, ref string) (models.Asset, error)
	Open(ctx context.Context, album, ref string) ([]byte, error)
}
