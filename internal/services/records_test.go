package services

import (
	"context"
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/dmitrijs2005/snaplocation/internal/config"
	"github.com/dmitrijs2005/snaplocation/internal/logging"
	"github.com/dmitrijs2005/snaplocation/internal/models"
	"github.com/dmitrijs2005/snaplocation/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (RecordStore, *sql.DB) {
	t.Helper()
	db, m, err := storage.InitDatabase(context.Background(), config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRecordStore(db, m, logging.Discard()), db
}

func record(street, ref string) models.LocationRecord {
	return models.LocationRecord{
		Timestamp:      time.Date(2024, 5, 1, 15, 4, 0, 0, time.UTC),
		Street:         street,
		Location:       "New York, NY",
		Latitude:       "40.74844",
		Longitude:      "-73.98566",
		ViewRadius:     500,
		PhotoReference: ref,
	}
}

func TestRecordStore_EndToEndScenario(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, int64(0), s.NextID(ctx))

	idA, ok := s.Add(ctx, record("A", ""))
	require.True(t, ok)
	assert.Equal(t, int64(0), idA)

	idB, ok := s.Add(ctx, record("B", ""))
	require.True(t, ok)
	assert.Equal(t, int64(1), idB)

	removed, ok := s.RemoveAt(ctx, 0)
	require.True(t, ok)
	assert.Equal(t, "A", removed.Street)

	assert.Equal(t, int64(2), s.NextID(ctx))
	assert.Equal(t, 1, s.Count(ctx))
}

func TestRecordStore_IDMonotonicity(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))

	for step := 0; step < 200; step++ {
		switch op := rng.Intn(10); {
		case op < 6:
			var maxSurviving int64 = -1
			for _, r := range s.List(ctx) {
				if r.ID > maxSurviving {
					maxSurviving = r.ID
				}
			}
			id, ok := s.Add(ctx, record("x", ""))
			require.True(t, ok)
			assert.Greater(t, id, maxSurviving, "step %d", step)
		case op < 9:
			if n := s.Count(ctx); n > 0 {
				_, ok := s.RemoveAt(ctx, rng.Intn(n))
				require.True(t, ok)
			}
		default:
			require.True(t, s.ClearAll(ctx))
			assert.Equal(t, int64(0), s.NextID(ctx))
			id, ok := s.Add(ctx, record("fresh", ""))
			require.True(t, ok)
			assert.Equal(t, int64(0), id)
		}
	}
}

func TestRecordStore_BoundsSafety(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for count := 0; count < 3; count++ {
		for _, i := range []int{-5, -1, count, count + 1, 100} {
			_, ok := s.GetAt(ctx, i)
			assert.False(t, ok, "count=%d index=%d", count, i)
			_, ok = s.RemoveAt(ctx, i)
			assert.False(t, ok, "count=%d index=%d", count, i)
		}
		for i := 0; i < count; i++ {
			_, ok := s.GetAt(ctx, i)
			assert.True(t, ok, "count=%d index=%d", count, i)
		}
		_, ok := s.Add(ctx, record("r", ""))
		require.True(t, ok)
	}
}

func TestRecordStore_GetByIDAndOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, street := range []string{"first", "second", "third"} {
		_, ok := s.Add(ctx, record(street, ""))
		require.True(t, ok)
	}

	r, ok := s.GetByID(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "second", r.Street)

	_, ok = s.GetByID(ctx, 9)
	assert.False(t, ok)

	list := s.List(ctx)
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Street)
	assert.Equal(t, "third", list[2].Street)

	r, ok = s.GetAt(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, int64(2), r.ID)
}

func TestRecordStore_AllPhotoReferences(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Add(ctx, record("a", "ref-a"))
	s.Add(ctx, record("b", ""))
	s.Add(ctx, record("c", "ref-c"))

	assert.Equal(t, []string{"ref-a", "ref-c"}, s.AllPhotoReferences(ctx))
}

func TestRecordStore_StorageFailuresAreSwallowed(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, ok := s.Add(ctx, record("a", ""))
	assert.False(t, ok)
	_, ok = s.RemoveAt(ctx, 0)
	assert.False(t, ok)
	_, ok = s.GetAt(ctx, 0)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Count(ctx))
	assert.Equal(t, int64(0), s.NextID(ctx))
	assert.False(t, s.ClearAll(ctx))
	assert.Nil(t, s.AllPhotoReferences(ctx))
	assert.Nil(t, s.List(ctx))
}

