package photos

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/snaplocation/internal/common"
	"github.com/dmitrijs2005/snaplocation/internal/cryptox"
	"github.com/dmitrijs2005/snaplocation/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asset(ref string, created time.Time, data []byte) models.Asset {
	return models.Asset{
		Reference:   ref,
		Album:       AlbumName,
		CreatedAt:   created,
		Hidden:      true,
		Size:        int64(len(data)),
		Checksum:    cryptox.Checksum(data),
		ContentType: "image/png",
	}
}

func TestFSBackend_PutGetListDelete(t *testing.T) {
	root := t.TempDir()
	b := NewFSBackend(root, true)
	ctx := context.Background()

	require.True(t, b.Authorized(ctx))
	require.NoError(t, b.EnsureAlbum(ctx, AlbumName))

	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, b.Put(ctx, AlbumName, asset("bbb", t0.Add(time.Minute), []byte("second")), []byte("second")))
	require.NoError(t, b.Put(ctx, AlbumName, asset("aaa", t0, []byte("first")), []byte("first")))

	_, err := os.Stat(filepath.Join(root, AlbumName, ".aaa.png"))
	require.NoError(t, err, "assets are stored as hidden files")

	list, err := b.List(ctx, AlbumName)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "aaa", list[0].Reference)
	assert.Equal(t, "bbb", list[1].Reference)

	got, err := b.Get(ctx, AlbumName, "bbb")
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(t0.Add(time.Minute)))

	data, err := b.Open(ctx, AlbumName, "bbb")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)

	require.NoError(t, b.Delete(ctx, AlbumName, []string{"aaa", "does-not-exist"}))
	list, err = b.List(ctx, AlbumName)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = b.Get(ctx, AlbumName, "aaa")
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = b.Open(ctx, AlbumName, "aaa")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFSBackend_Unauthorized(t *testing.T) {
	b := NewFSBackend(t.TempDir(), false)
	assert.False(t, b.Authorized(context.Background()))
}

func TestFSBackend_ListIgnoresStrayFiles(t *testing.T) {
	root := t.TempDir()
	b := NewFSBackend(root, true)
	ctx := context.Background()
	require.NoError(t, b.EnsureAlbum(ctx, AlbumName))

	dir := filepath.Join(root, AlbumName)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".broken.json"), []byte("{"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".sub.json"), 0o700))

	list, err := b.List(ctx, AlbumName)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFSBackend_WithStore(t *testing.T) {
	s := newTestStore(NewFSBackend(t.TempDir(), true))
	ctx := context.Background()

	res := <-s.Save(ctx, []byte("png"))
	require.NoError(t, res.Err)

	assert.True(t, s.Verify(ctx, res.Reference))
	s.DeleteByReferences(ctx, []string{res.Reference})
	_, ok := s.FetchLatest(ctx)
	assert.False(t, ok)
}
