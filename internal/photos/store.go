package photos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/snaplocation/internal/common"
	"github.com/dmitrijs2005/snaplocation/internal/cryptox"
	"github.com/dmitrijs2005/snaplocation/internal/logging"
	"github.com/dmitrijs2005/snaplocation/internal/models"
	"github.com/google/uuid"
)

// SaveResult is delivered once per Save call.
type SaveResult struct {
	Reference string
	Err       error
}

// Store is the photo library facade used by the capture workflow and the
// history list.
//
// When library access is denied every operation is a silent no-op: reads
// report absent, deletes do nothing and saves complete with
// common.ErrAlbumUnavailable.
type Store interface {
	// Save persists image asynchronously. The returned channel yields exactly
	// one result and is then closed.
	Save(ctx context.Context, image []byte) <-chan SaveResult

	// DeleteByReferences removes the given assets; unknown references are ignored.
	DeleteByReferences(ctx context.Context, refs []string)

	FetchLatest(ctx context.Context) (models.Asset, bool)
	FetchByIndex(ctx context.Context, index int) (models.Asset, bool)
	FetchByReference(ctx context.Context, ref string) (models.Asset, bool)
	List(ctx context.Context) []models.Asset

	// Verify re-reads an asset and checks it against its stored checksum.
	Verify(ctx context.Context, ref string) bool

	// Refresh forgets the resolved album so the next call re-checks
	// authorization. It reports whether the album is now available.
	Refresh(ctx context.Context) bool
}

type store struct {
	backend  Backend
	album    string
	resolved bool
	logger   logging.Logger

	now    func() time.Time
	newRef func() string
}

// NewStore constructs a Store over backend for the named album.
func NewStore(backend Backend, album string, logger logging.Logger) Store {
	return &store{
		backend: backend,
		album:   album,
		logger:  logger.With("album", album),
		now:     time.Now,
		newRef:  uuid.NewString,
	}
}

// resolve lazily checks authorization and creates the album.
func (s *store) resolve(ctx context.Context) bool {
	if s.resolved {
		return true
	}
	if !s.backend.Authorized(ctx) {
		s.logger.Debug(ctx, "photo library access denied")
		return false
	}
	if err := s.backend.EnsureAlbum(ctx, s.album); err != nil {
		s.logger.Error(ctx, "failed to resolve photo album", "error", err)
		return false
	}
	s.resolved = true
	return true
}

func (s *store) Refresh(ctx context.Context) bool {
	s.resolved = false
	return s.resolve(ctx)
}

func (s *store) Save(ctx context.Context, image []byte) <-chan SaveResult {
	out := make(chan SaveResult, 1)

	if !s.resolve(ctx) {
		out <- SaveResult{Err: common.ErrAlbumUnavailable}
		close(out)
		return out
	}

	asset := models.Asset{
		Reference:   s.newRef(),
		Album:       s.album,
		CreatedAt:   s.now().UTC(),
		Hidden:      true,
		Size:        int64(len(image)),
		Checksum:    cryptox.Checksum(image),
		ContentType: "image/png",
	}

	go func() {
		defer close(out)
		if err := s.backend.Put(ctx, s.album, asset, image); err != nil {
			s.logger.Error(ctx, "failed to save photo", "error", err)
			out <- SaveResult{Err: fmt.Errorf("save photo: %w", err)}
			return
		}
		s.logger.Debug(ctx, "photo saved", "reference", asset.Reference)
		out <- SaveResult{Reference: asset.Reference}
	}()
	return out
}

func (s *store) DeleteByReferences(ctx context.Context, refs []string) {
	if len(refs) == 0 || !s.resolve(ctx) {
		return
	}
	if err := s.backend.Delete(ctx, s.album, refs); err != nil {
		s.logger.Error(ctx, "failed to delete photos", "count", len(refs), "error", err)
	}
}

func (s *store) List(ctx context.Context) []models.Asset {
	if !s.resolve(ctx) {
		return nil
	}
	assets, err := s.backend.List(ctx, s.album)
	if err != nil {
		s.logger.Error(ctx, "failed to list photos", "error", err)
		return nil
	}
	return assets
}

func (s *store) FetchLatest(ctx context.Context) (models.Asset, bool) {
	assets := s.List(ctx)
	if len(assets) == 0 {
		return models.Asset{}, false
	}
	return assets[len(assets)-1], true
}

func (s *store) FetchByIndex(ctx context.Context, index int) (models.Asset, bool) {
	if index < 0 {
		return models.Asset{}, false
	}
	assets := s.List(ctx)
	if index >= len(assets) {
		return models.Asset{}, false
	}
	return assets[index], true
}

func (s *store) FetchByReference(ctx context.Context, ref string) (models.Asset, bool) {
	if ref == "" || !s.resolve(ctx) {
		return models.Asset{}, false
	}
	a, err := s.backend.Get(ctx, s.album, ref)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "failed to fetch photo", "reference", ref, "error", err)
		}
		return models.Asset{}, false
	}
	return a, true
}

func (s *store) Verify(ctx context.Context, ref string) bool {
	a, ok := s.FetchByReference(ctx, ref)
	if !ok {
		return false
	}
	data, err := s.backend.Open(ctx, s.album, ref)
	if err != nil {
		s.logger.Error(ctx, "failed to read photo", "reference", ref, "error", err)
		return false
	}
	return cryptox.Verify(data, a.Checksum)
}
