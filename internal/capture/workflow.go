// Package capture drives a single location capture: locate, reverse
// geocode, compose the info text, render the screenshot, save the photo and
// append the history record.
//
// The Workflow is owned by the UI goroutine. Geocoding and photo writes run
// in background goroutines and report back as Completions on a channel; the
// UI goroutine applies them with Apply. Every Locate issues a new request
// token, and a completion whose token is not current is discarded.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/snaplocation/internal/clipboard"
	"github.com/dmitrijs2005/snaplocation/internal/common"
	"github.com/dmitrijs2005/snaplocation/internal/geocode"
	"github.com/dmitrijs2005/snaplocation/internal/locate"
	"github.com/dmitrijs2005/snaplocation/internal/logging"
	"github.com/dmitrijs2005/snaplocation/internal/mapview"
	"github.com/dmitrijs2005/snaplocation/internal/models"
	"github.com/dmitrijs2005/snaplocation/internal/photos"
	"github.com/dmitrijs2005/snaplocation/internal/prefs"
	"github.com/dmitrijs2005/snaplocation/internal/render"
)

// State is a workflow state.
type State int

const (
	Idle State = iota
	Locating
	Geocoding
	Built
	Saving
)

var stateNames = [...]string{"idle", "locating", "geocoding", "built", "saving"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Kind tells what finished.
type Kind int

const (
	GeocodeDone Kind = iota
	SaveDone
)

// Completion is the result of one background operation.
type Completion struct {
	Kind      Kind
	Token     uint64
	Placemark models.Placemark
	Reference string
	Err       error
}

// PreferenceSource is implemented by *prefs.Store.
type PreferenceSource interface {
	Current() prefs.Preferences
}

// MapView is implemented by *mapview.View.
type MapView interface {
	Center() models.Coordinate
	Radius() float64
	Type() models.MapType
	CenterOn(c models.Coordinate, radius float64)
	ApplyPreferences(p prefs.Preferences)
}

// Renderer is implemented by *render.Renderer.
type Renderer interface {
	Render(f render.Frame) ([]byte, error)
}

// PhotoSaver is the part of photos.Store the workflow uses.
type PhotoSaver interface {
	Save(ctx context.Context, image []byte) <-chan photos.SaveResult
}

// RecordAdder is the part of services.RecordStore the workflow uses.
type RecordAdder interface {
	Add(ctx context.Context, r models.LocationRecord) (int64, bool)
}

// Deps are the collaborators of a Workflow.
type Deps struct {
	Prefs     PreferenceSource
	Device    locate.Locator
	Center    locate.Locator
	Geocoder  geocode.Geocoder
	View      MapView
	Renderer  Renderer
	Photos    PhotoSaver
	Records   RecordAdder
	Clipboard clipboard.Clipboard
}

// Workflow is the capture state machine.
type Workflow struct {
	deps   Deps
	logger logging.Logger

	state     State
	token     uint64
	cancel    context.CancelFunc
	text      string
	placemark *models.Placemark
	record    models.LocationRecord
	lastID    int64

	completions chan Completion
	done        chan struct{}
	wg          sync.WaitGroup
}

func New(deps Deps, logger logging.Logger) *Workflow {
	return &Workflow{
		deps:        deps,
		logger:      logger,
		completions: make(chan Completion, 8),
		done:        make(chan struct{}),
		lastID:      -1,
	}
}

func (w *Workflow) State() State { return w.state }

// Text is the composed info text; empty until a geocode is applied.
func (w *Workflow) Text() string { return w.text }

// Token identifies the current request.
func (w *Workflow) Token() uint64 { return w.token }

// Placemark returns the last applied geocoding result.
func (w *Workflow) Placemark() (models.Placemark, bool) {
	if w.placemark == nil {
		return models.Placemark{}, false
	}
	return *w.placemark, true
}

// LastRecordID is the id of the last record saved by Snap, or -1.
func (w *Workflow) LastRecordID() int64 { return w.lastID }

// Completions delivers background results to the UI goroutine.
func (w *Workflow) Completions() <-chan Completion { return w.completions }

// Pending reports whether a background operation is outstanding.
func (w *Workflow) Pending() bool {
	return w.state == Geocoding || w.state == Saving
}

func (w *Workflow) deliver(c Completion) {
	select {
	case w.completions <- c:
	case <-w.done:
	}
}

func (w *Workflow) invalidate() {
	w.token++
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

// Locate starts a new capture. It clears the info text, invalidates any
// in-flight request and samples a position from the map center or the
// device, per the locateActionIndex preference. On success the reverse
// geocode runs in the background and the workflow waits in Geocoding.
func (w *Workflow) Locate(ctx context.Context) error {
	if w.state == Saving {
		return fmt.Errorf("%w: capture is being saved", common.ErrInvalidState)
	}

	w.invalidate()
	w.text = ""
	w.placemark = nil
	w.state = Locating

	locator := w.deps.Device
	if w.deps.Prefs.Current().LocateActionIndex == prefs.LocateScreenCenter {
		locator = w.deps.Center
	}

	fix, err := locator.Locate(ctx)
	if err != nil {
		w.state = Idle
		if errors.Is(err, common.ErrPermissionDenied) {
			w.logger.Warn(ctx, "location access denied")
		} else {
			w.logger.Error(ctx, "failed to locate", "error", err)
		}
		return err
	}

	reqCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.state = Geocoding
	token := w.token

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		p, err := w.deps.Geocoder.Reverse(reqCtx, fix)
		w.deliver(Completion{Kind: GeocodeDone, Token: token, Placemark: p, Err: err})
	}()
	return nil
}

// Apply processes a completion on the UI goroutine. Completions for an
// outdated token, or arriving in a state that does not expect them, return
// common.ErrStaleCompletion and change nothing.
func (w *Workflow) Apply(ctx context.Context, c Completion) error {
	switch {
	case c.Token != w.token:
		w.logger.Debug(ctx, "discarding completion for old request", "token", c.Token, "current", w.token)
		return common.ErrStaleCompletion
	case c.Kind == GeocodeDone && w.state == Geocoding:
		return w.applyGeocode(ctx, c)
	case c.Kind == SaveDone && w.state == Saving:
		ref := c.Reference
		if c.Err != nil {
			ref = ""
			if errors.Is(c.Err, common.ErrAlbumUnavailable) {
				w.logger.Debug(ctx, "photo album unavailable, saving without photo")
			} else {
				w.logger.Error(ctx, "photo save failed", "error", c.Err)
			}
		}
		w.finishSave(ctx, ref)
		return nil
	default:
		w.logger.Debug(ctx, "discarding duplicate completion", "state", w.state.String())
		return common.ErrStaleCompletion
	}
}

func (w *Workflow) applyGeocode(ctx context.Context, c Completion) error {
	w.cancel = nil
	if c.Err != nil {
		w.state = Idle
		w.logger.Warn(ctx, "reverse geocode failed", "error", c.Err)
		return fmt.Errorf("reverse geocode: %w", c.Err)
	}

	p := c.Placemark
	w.placemark = &p
	w.build(ctx)

	fix := p.Fix.Coordinate
	w.deps.View.CenterOn(fix, mapview.RadiusFor(w.deps.Prefs.Current().ZoomLevel))
	w.state = Built
	return nil
}

// build composes the record and info text from the current placemark.
func (w *Workflow) build(ctx context.Context) {
	p := w.deps.Prefs.Current()
	w.record = w.placemark.Record()
	w.text = Compose(w.record, p)

	if p.SaveToPasteboard && w.text != "" {
		if err := w.deps.Clipboard.Copy(w.text); err != nil {
			w.logger.Warn(ctx, "failed to copy info text", "error", err)
		}
	}
}

// Refresh re-applies the preferences after they changed: the map view
// settings and, when a capture is shown, its info text.
func (w *Workflow) Refresh(ctx context.Context) {
	w.deps.View.ApplyPreferences(w.deps.Prefs.Current())
	if w.placemark == nil || w.Pending() {
		return
	}
	w.build(ctx)
}

// Snap renders the screen and saves the capture. It is only valid in Built.
// With photo saving enabled the workflow waits in Saving for the photo
// reference; otherwise the record is stored right away.
func (w *Workflow) Snap(ctx context.Context) error {
	if w.state != Built {
		return fmt.Errorf("%w: nothing to snap in state %s", common.ErrInvalidState, w.state)
	}
	p := w.deps.Prefs.Current()
	w.state = Saving

	if !p.SaveToPhotosAlbum {
		w.finishSave(ctx, "")
		return nil
	}

	img, err := w.deps.Renderer.Render(render.Frame{
		MapType: w.deps.View.Type(),
		Center:  w.deps.View.Center(),
		Radius:  w.deps.View.Radius(),
		ShowPin: p.PinVisible(),
		Text:    w.text,
	})
	if err != nil {
		w.logger.Error(ctx, "failed to render screenshot", "error", err)
		w.finishSave(ctx, "")
		return nil
	}

	results := w.deps.Photos.Save(ctx, img)
	token := w.token

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		var r photos.SaveResult
		select {
		case r = <-results:
		case <-w.done:
			return
		}
		w.deliver(Completion{Kind: SaveDone, Token: token, Reference: r.Reference, Err: r.Err})
	}()
	return nil
}

func (w *Workflow) finishSave(ctx context.Context, ref string) {
	w.lastID = -1
	if w.deps.Prefs.Current().SaveToHistory {
		r := w.record
		r.ViewRadius = w.deps.View.Radius()
		r.PhotoReference = ref
		if id, ok := w.deps.Records.Add(ctx, r); ok {
			w.lastID = id
		}
	}
	w.state = Idle
}

// Reset abandons any in-flight request and returns to Idle.
func (w *Workflow) Reset() {
	w.invalidate()
	w.state = Idle
}

// Drain applies every completion already delivered without blocking.
func (w *Workflow) Drain(ctx context.Context) []error {
	var errs []error
	for {
		select {
		case c := <-w.completions:
			if err := w.Apply(ctx, c); err != nil && !errors.Is(err, common.ErrStaleCompletion) {
				errs = append(errs, err)
			}
		default:
			return errs
		}
	}
}

// Wait blocks until no background operation is outstanding, applying
// completions as they arrive.
func (w *Workflow) Wait(ctx context.Context) error {
	var errs []error
	for w.Pending() {
		select {
		case c := <-w.completions:
			if err := w.Apply(ctx, c); err != nil && !errors.Is(err, common.ErrStaleCompletion) {
				errs = append(errs, err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return errors.Join(errs...)
}

// Close cancels in-flight work and waits for background goroutines.
func (w *Workflow) Close() {
	w.invalidate()
	close(w.done)
	w.wg.Wait()
}
