package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/snaplocation/internal/clipboard"
	"github.com/dmitrijs2005/snaplocation/internal/common"
	"github.com/dmitrijs2005/snaplocation/internal/logging"
	"github.com/dmitrijs2005/snaplocation/internal/mapview"
	"github.com/dmitrijs2005/snaplocation/internal/models"
	"github.com/dmitrijs2005/snaplocation/internal/photos"
	"github.com/dmitrijs2005/snaplocation/internal/prefs"
	"github.com/dmitrijs2005/snaplocation/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type staticPrefs struct {
	p prefs.Preferences
}

func (s *staticPrefs) Current() prefs.Preferences { return s.p }

type fakeLocator struct {
	fix   models.Fix
	err   error
	calls int
}

func (f *fakeLocator) Locate(context.Context) (models.Fix, error) {
	f.calls++
	return f.fix, f.err
}

// fakeGeocoder answers immediately unless gate is set, in which case every
// call waits for a release or for its context to end.
type fakeGeocoder struct {
	mu    sync.Mutex
	gate  chan struct{}
	err   error
	calls int
}

func (f *fakeGeocoder) Reverse(ctx context.Context, fix models.Fix) (models.Placemark, error) {
	f.mu.Lock()
	f.calls++
	gate, err := f.gate, f.err
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return models.Placemark{}, ctx.Err()
		}
	}
	if err != nil {
		return models.Placemark{}, err
	}
	return models.Placemark{
		Street:             "Main St 1",
		Locality:           "Riga",
		AdministrativeArea: "Riga",
		PostalCode:         "LV-1050",
		Fix:                fix,
	}, nil
}

type fakeRenderer struct {
	frames []render.Frame
	err    error
}

func (f *fakeRenderer) Render(fr render.Frame) ([]byte, error) {
	f.frames = append(f.frames, fr)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("png"), nil
}

type fakePhotos struct {
	ref   string
	err   error
	saved [][]byte
}

func (f *fakePhotos) Save(_ context.Context, image []byte) <-chan photos.SaveResult {
	f.saved = append(f.saved, image)
	ch := make(chan photos.SaveResult, 1)
	ch <- photos.SaveResult{Reference: f.ref, Err: f.err}
	close(ch)
	return ch
}

type fakeRecords struct {
	added []models.LocationRecord
}

func (f *fakeRecords) Add(_ context.Context, r models.LocationRecord) (int64, bool) {
	r.ID = int64(len(f.added))
	f.added = append(f.added, r)
	return r.ID, true
}

type harness struct {
	prefs    *staticPrefs
	device   *fakeLocator
	center   *fakeLocator
	geocoder *fakeGeocoder
	view     *mapview.View
	renderer *fakeRenderer
	photos   *fakePhotos
	records  *fakeRecords
	clip     *clipboard.Memory
	wf       *Workflow
}

var testFix = models.Fix{
	Coordinate:         models.Coordinate{Latitude: 56.9496, Longitude: 24.1052},
	Altitude:           7,
	VerticalAccuracy:   2,
	HorizontalAccuracy: 4,
	Timestamp:          time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		prefs:    &staticPrefs{p: prefs.Defaults()},
		device:   &fakeLocator{fix: testFix},
		center:   &fakeLocator{fix: testFix},
		geocoder: &fakeGeocoder{},
		view:     mapview.New(models.Coordinate{}),
		renderer: &fakeRenderer{},
		photos:   &fakePhotos{ref: "ref-1"},
		records:  &fakeRecords{},
		clip:     &clipboard.Memory{},
	}
	h.wf = New(Deps{
		Prefs:     h.prefs,
		Device:    h.device,
		Center:    h.center,
		Geocoder:  h.geocoder,
		View:      h.view,
		Renderer:  h.renderer,
		Photos:    h.photos,
		Records:   h.records,
		Clipboard: h.clip,
	}, logging.Discard())
	t.Cleanup(h.wf.Close)
	return h
}

func receive(t *testing.T, wf *Workflow) Completion {
	t.Helper()
	select {
	case c := <-wf.Completions():
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no completion delivered")
		return Completion{}
	}
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "saving", Saving.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func TestLocate_BuildsCapture(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.wf.Locate(ctx))
	assert.Equal(t, Geocoding, h.wf.State())
	assert.Equal(t, "", h.wf.Text())

	require.NoError(t, h.wf.Wait(ctx))
	assert.Equal(t, Built, h.wf.State())
	assert.Equal(t, 1, h.center.calls, "default locate action uses the screen center")
	assert.Equal(t, 0, h.device.calls)

	assert.Contains(t, h.wf.Text(), " street: Main St 1")
	assert.Contains(t, h.wf.Text(), " location: Riga, Riga")
	assert.Equal(t, h.wf.Text(), h.clip.Text())

	assert.Equal(t, testFix.Coordinate, h.view.Center())
	assert.Equal(t, mapview.RadiusFor(h.prefs.p.ZoomLevel), h.view.Radius())

	p, ok := h.wf.Placemark()
	require.True(t, ok)
	assert.Equal(t, "LV-1050", p.PostalCode)
}

func TestLocate_UsesDeviceLocator(t *testing.T) {
	h := newHarness(t)
	h.prefs.p.LocateActionIndex = prefs.LocateUserLocation

	require.NoError(t, h.wf.Locate(context.Background()))
	require.NoError(t, h.wf.Wait(context.Background()))
	assert.Equal(t, 1, h.device.calls)
	assert.Equal(t, 0, h.center.calls)
}

func TestLocate_PermissionDenied(t *testing.T) {
	h := newHarness(t)
	h.center.err = common.ErrPermissionDenied

	err := h.wf.Locate(context.Background())
	require.ErrorIs(t, err, common.ErrPermissionDenied)
	assert.Equal(t, Idle, h.wf.State())
	assert.Equal(t, 0, h.geocoder.calls)
	assert.Empty(t, h.wf.Text())
}

func TestLocate_GeocodeFailureReturnsToIdle(t *testing.T) {
	h := newHarness(t)
	h.geocoder.err = common.ErrNoResults

	require.NoError(t, h.wf.Locate(context.Background()))
	err := h.wf.Wait(context.Background())
	require.ErrorIs(t, err, common.ErrNoResults)
	assert.Equal(t, Idle, h.wf.State())
	assert.Empty(t, h.wf.Text())
	assert.Equal(t, 0, h.clip.Copies())
}

func TestApply_DuplicateCompletionIsDiscarded(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.wf.Locate(ctx))
	c := receive(t, h.wf)

	require.NoError(t, h.wf.Apply(ctx, c))
	text := h.wf.Text()
	require.NotEmpty(t, text)

	other := c
	other.Placemark.Street = "Elsewhere"
	err := h.wf.Apply(ctx, other)
	require.ErrorIs(t, err, common.ErrStaleCompletion)
	assert.Equal(t, text, h.wf.Text())
	assert.Equal(t, 1, h.clip.Copies())
}

func TestApply_OldTokenIsDiscarded(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	gate := make(chan struct{})
	h.geocoder.gate = gate

	require.NoError(t, h.wf.Locate(ctx))
	first := h.wf.Token()
	require.NoError(t, h.wf.Locate(ctx))
	assert.NotEqual(t, first, h.wf.Token())

	// the first request was canceled and reports with its old token
	stale := receive(t, h.wf)
	assert.Equal(t, first, stale.Token)
	require.ErrorIs(t, h.wf.Apply(ctx, stale), common.ErrStaleCompletion)
	assert.Equal(t, Geocoding, h.wf.State())

	close(gate)
	require.NoError(t, h.wf.Wait(ctx))
	assert.Equal(t, Built, h.wf.State())
}

func TestReset_DiscardsInFlightGeocode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.geocoder.gate = make(chan struct{})

	require.NoError(t, h.wf.Locate(ctx))
	h.wf.Reset()
	assert.Equal(t, Idle, h.wf.State())

	c := receive(t, h.wf)
	require.ErrorIs(t, h.wf.Apply(ctx, c), common.ErrStaleCompletion)
	assert.Equal(t, Idle, h.wf.State())
}

func TestSnap_RequiresBuilt(t *testing.T) {
	h := newHarness(t)
	err := h.wf.Snap(context.Background())
	require.ErrorIs(t, err, common.ErrInvalidState)
	assert.Equal(t, Idle, h.wf.State())
}

func TestSnap_SavesPhotoAndRecord(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.wf.Locate(ctx))
	require.NoError(t, h.wf.Wait(ctx))
	text := h.wf.Text()

	require.NoError(t, h.wf.Snap(ctx))
	assert.Equal(t, Saving, h.wf.State())
	require.ErrorIs(t, h.wf.Locate(ctx), common.ErrInvalidState)

	require.NoError(t, h.wf.Wait(ctx))
	assert.Equal(t, Idle, h.wf.State())
	assert.Equal(t, text, h.wf.Text(), "info text stays after saving")

	require.Len(t, h.renderer.frames, 1)
	fr := h.renderer.frames[0]
	assert.Equal(t, text, fr.Text)
	assert.Equal(t, models.MapHybrid, fr.MapType)
	assert.True(t, fr.ShowPin)
	assert.Equal(t, testFix.Coordinate, fr.Center)

	require.Len(t, h.records.added, 1)
	rec := h.records.added[0]
	assert.Equal(t, "ref-1", rec.PhotoReference)
	assert.Equal(t, h.view.Radius(), rec.ViewRadius)
	assert.Equal(t, "56.94960", rec.Latitude)
	assert.Equal(t, testFix.Timestamp, rec.Timestamp)
	assert.Equal(t, int64(0), h.wf.LastRecordID())
}

func TestSnap_PinHiddenBelowZoomThreshold(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.prefs.p.ZoomLevel = 3

	require.NoError(t, h.wf.Locate(ctx))
	require.NoError(t, h.wf.Wait(ctx))
	require.NoError(t, h.wf.Snap(ctx))
	require.NoError(t, h.wf.Wait(ctx))

	require.Len(t, h.renderer.frames, 1)
	assert.False(t, h.renderer.frames[0].ShowPin)
}

func TestSnap_PhotoFailureSavesRecordWithoutReference(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"album unavailable", common.ErrAlbumUnavailable},
		{"write failed", errors.New("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			ctx := context.Background()
			h.photos.err = tt.err

			require.NoError(t, h.wf.Locate(ctx))
			require.NoError(t, h.wf.Wait(ctx))
			require.NoError(t, h.wf.Snap(ctx))
			require.NoError(t, h.wf.Wait(ctx))

			require.Len(t, h.records.added, 1)
			assert.Empty(t, h.records.added[0].PhotoReference)
			assert.Equal(t, Idle, h.wf.State())
		})
	}
}

func TestSnap_Toggles(t *testing.T) {
	tests := []struct {
		name        string
		photos      bool
		history     bool
		wantPhotos  int
		wantRecords int
	}{
		{"photos and history", true, true, 1, 1},
		{"history only", false, true, 0, 1},
		{"photos only", true, false, 1, 0},
		{"neither", false, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			ctx := context.Background()
			h.prefs.p.SaveToPhotosAlbum = tt.photos
			h.prefs.p.SaveToHistory = tt.history

			require.NoError(t, h.wf.Locate(ctx))
			require.NoError(t, h.wf.Wait(ctx))
			require.NoError(t, h.wf.Snap(ctx))
			require.NoError(t, h.wf.Wait(ctx))

			assert.Len(t, h.photos.saved, tt.wantPhotos)
			assert.Len(t, h.records.added, tt.wantRecords)
			assert.Equal(t, Idle, h.wf.State())
			if tt.wantRecords == 1 && tt.photos {
				assert.Equal(t, "ref-1", h.records.added[0].PhotoReference)
			} else if tt.wantRecords == 1 {
				assert.Empty(t, h.records.added[0].PhotoReference)
			}
		})
	}
}

func TestSnap_RenderFailureStillRecords(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.renderer.err = errors.New("boom")

	require.NoError(t, h.wf.Locate(ctx))
	require.NoError(t, h.wf.Wait(ctx))
	require.NoError(t, h.wf.Snap(ctx))

	assert.Equal(t, Idle, h.wf.State())
	assert.Empty(t, h.photos.saved)
	require.Len(t, h.records.added, 1)
	assert.Empty(t, h.records.added[0].PhotoReference)
}

func TestRefresh_RecomposesText(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.wf.Locate(ctx))
	require.NoError(t, h.wf.Wait(ctx))
	require.Contains(t, h.wf.Text(), "street")

	h.prefs.p = allOff()
	h.prefs.p.IncludeZipcodeInfo = true
	h.prefs.p.MapTypeIndex = int(models.MapSatellite)
	h.wf.Refresh(ctx)

	assert.Equal(t, " zipcode: LV-1050", h.wf.Text())
	assert.Equal(t, " zipcode: LV-1050", h.clip.Text())
	assert.Equal(t, models.MapSatellite, h.view.Type())
}

func TestRefresh_WithoutCaptureOnlyUpdatesView(t *testing.T) {
	h := newHarness(t)
	h.prefs.p.ZoomLevel = 20

	h.wf.Refresh(context.Background())
	assert.Empty(t, h.wf.Text())
	assert.Equal(t, 0, h.clip.Copies())
	assert.Equal(t, mapview.RadiusFor(20), h.view.Radius())
}

func TestClipboardDisabled(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.prefs.p.SaveToPasteboard = false

	require.NoError(t, h.wf.Locate(ctx))
	require.NoError(t, h.wf.Wait(ctx))
	assert.NotEmpty(t, h.wf.Text())
	assert.Equal(t, 0, h.clip.Copies())
}

func TestDrain(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.Empty(t, h.wf.Drain(ctx))

	require.NoError(t, h.wf.Locate(ctx))
	require.Eventually(t, func() bool {
		h.wf.Drain(ctx)
		return h.wf.State() == Built
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWait_ContextCanceled(t *testing.T) {
	h := newHarness(t)
	h.geocoder.gate = make(chan struct{})

	require.NoError(t, h.wf.Locate(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, h.wf.Wait(ctx), context.DeadlineExceeded)
	assert.Equal(t, Geocoding, h.wf.State())
}
