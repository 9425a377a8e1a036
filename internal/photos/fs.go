package photos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmitrijs2005/snaplocation/internal/common"
	"github.com/dmitrijs2005/snaplocation/internal/filex"
	"github.com/dmitrijs2005/snaplocation/internal/models"
)

// FSBackend keeps albums as directories under root. Each asset is a hidden
// dot-file ".<ref>.png" with a ".<ref>.json" sidecar holding its metadata.
type FSBackend struct {
	root       string
	authorized bool
}

func NewFSBackend(root string, authorized bool) *FSBackend {
	return &FSBackend{root: root, authorized: authorized}
}

func (b *FSBackend) Authorized(ctx context.Context) bool {
	if !b.authorized {
		return false
	}
	if err := os.MkdirAll(b.root, 0o770); err != nil {
		return false
	}
	return filex.IsWritable(b.root)
}

func (b *FSBackend) EnsureAlbum(ctx context.Context, album string) error {
	_, err := filex.EnsureSubdDir(b.root, album)
	return err
}

func (b *FSBackend) imagePath(album, ref string) string {
	return filepath.Join(b.root, album, "."+ref+".png")
}

func (b *FSBackend) sidecarPath(album, ref string) string {
	return filepath.Join(b.root, album, "."+ref+".json")
}

func (b *FSBackend) Put(ctx context.Context, album string, asset models.Asset, data []byte) error {
	meta, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("encode asset metadata: %w", err)
	}
	if err := filex.WriteFileAtomic(b.imagePath(album, asset.Reference), data, 0o640); err != nil {
		return err
	}
	// the sidecar goes last: an asset without one is not listed
	return filex.WriteFileAtomic(b.sidecarPath(album, asset.Reference), meta, 0o640)
}

func (b *FSBackend) Delete(ctx context.Context, album string, refs []string) error {
	var errs []error
	for _, ref := range refs {
		for _, p := range []string{b.sidecarPath(album, ref), b.imagePath(album, ref)} {
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (b *FSBackend) List(ctx context.Context, album string) ([]models.Asset, error) {
	entries, err := os.ReadDir(filepath.Join(b.root, album))
	if err != nil {
		return nil, fmt.Errorf("read album: %w", err)
	}

	var assets []models.Asset
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		ref := strings.TrimSuffix(strings.TrimPrefix(name, "."), ".json")
		a, err := b.Get(ctx, album, ref)
		if err != nil {
			continue
		}
		assets = append(assets, a)
	}

	sort.SliceStable(assets, func(i, j int) bool {
		if assets[i].CreatedAt.Equal(assets[j].CreatedAt) {
			return assets[i].Reference < assets[j].Reference
		}
		return assets[i].CreatedAt.Before(assets[j].CreatedAt)
	})
	return assets, nil
}

func (b *FSBackend) Get(ctx context.Context, album, ref string) (models.Asset, error) {
	data, err := os.ReadFile(b.sidecarPath(album, ref))
	if errors.Is(err, fs.ErrNotExist) {
		return models.Asset{}, common.ErrorNotFound
	}
	if err != nil {
		return models.Asset{}, fmt.Errorf("read asset metadata: %w", err)
	}
	var a models.Asset
	if err := json.Unmarshal(data, &a); err != nil {
		return models.Asset{}, fmt.Errorf("decode asset metadata: %w", err)
	}
	return a, nil
}

func (b *FSBackend) Open(ctx context.Context, album, ref string) ([]byte, error) {
	data, err := os.ReadFile(b.imagePath(album, ref))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrorNotFound
	}
	return data, err
}
