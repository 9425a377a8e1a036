package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snaplocation/internal/capture"
	"github.com/dmitrijs2005/snaplocation/internal/common"
	"github.com/dmitrijs2005/snaplocation/internal/history"
	"github.com/dmitrijs2005/snaplocation/internal/models"
	"github.com/dmitrijs2005/snaplocation/internal/prefs"
)

func report(err error) error {
	if err != nil {
		printlnFn("Error:", err)
	}
	return err
}

// settle reports what changed since the workflow was in state before.
func (a *App) settle(before capture.State) {
	after := a.workflow.State()
	switch {
	case before == capture.Geocoding && after == capture.Built:
		printlnFn(a.workflow.Text())
	case before == capture.Saving && after == capture.Idle:
		if id := a.workflow.LastRecordID(); id >= 0 {
			printlnFn(fmt.Sprintf("Saved record %d", id))
		} else {
			printlnFn("Snap done")
		}
	}
}

// Drain applies finished background work.
func (a *App) Drain(ctx context.Context) {
	before := a.workflow.State()
	for _, err := range a.workflow.Drain(ctx) {
		_ = report(err)
	}
	a.settle(before)
}

func (a *App) Locate(ctx context.Context) error {
	if err := a.workflow.Locate(ctx); err != nil {
		if errors.Is(err, common.ErrPermissionDenied) {
			printlnFn("Location access is disabled")
			return err
		}
		return report(err)
	}
	printlnFn("Locating...")
	return nil
}

func (a *App) Wait(ctx context.Context) error {
	before := a.workflow.State()
	err := a.workflow.Wait(ctx)
	a.settle(before)
	return report(err)
}

func (a *App) Snap(ctx context.Context) error {
	if err := a.workflow.Snap(ctx); err != nil {
		return report(err)
	}
	if a.workflow.Pending() {
		printlnFn("Saving...")
		return nil
	}
	a.settle(capture.Saving)
	return nil
}

func (a *App) Center(ctx context.Context, args []string) error {
	lat, lon, err := parseCoordinate(args)
	if err != nil {
		printlnFn("Usage: center <lat> <lon>")
		return err
	}
	a.view.SetCenter(models.Coordinate{Latitude: lat, Longitude: lon})
	printlnFn(fmt.Sprintf("Map centered at %s, %s", models.FormatDegrees(lat), models.FormatDegrees(lon)))
	return nil
}

func (a *App) History(ctx context.Context) error {
	rows := a.history.Rows(ctx)
	if len(rows) == 0 {
		printlnFn("History is empty")
		return nil
	}
	for i, r := range rows {
		photo := ""
		if r.HasPhoto() {
			photo = " [photo]"
		}
		printlnFn(fmt.Sprintf("%3d  %s%s", i, history.FormatRow(r), photo))
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	row, err := parseRow(args)
	if err != nil {
		printlnFn("Usage: delete <row>")
		return err
	}
	r, ok := a.history.DeleteAt(ctx, row)
	if !ok {
		printlnFn("No such row:", row)
		return common.ErrorNotFound
	}
	printlnFn(fmt.Sprintf("Deleted record %d", r.ID))
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	if !Confirm(a.scanner, "Delete all captures and their photos?", a.out) {
		printlnFn("Cancelled")
		return nil
	}
	n, ok := a.history.DeleteAll(ctx)
	if !ok {
		return report(errors.New("failed to clear history"))
	}
	printlnFn(fmt.Sprintf("History cleared, %d photo(s) removed", n))
	return nil
}

func (a *App) Select(ctx context.Context, args []string) error {
	row, err := parseRow(args)
	if err != nil {
		printlnFn("Usage: select <row>")
		return err
	}
	r, ok := a.history.Select(ctx, row)
	if !ok {
		printlnFn("No such row:", row)
		return common.ErrorNotFound
	}
	printlnFn(history.FormatRow(r))
	printlnFn(fmt.Sprintf("Map centered at %s, %s radius %gm", r.Latitude, r.Longitude, a.view.Radius()))
	return nil
}

func (a *App) Settings(ctx context.Context) error {
	p := a.prefs.Current()
	for _, f := range prefs.Schema {
		printlnFn(fmt.Sprintf("%-32s %-14s %s", f.Name, f.Describe(p), f.Kind))
	}
	return nil
}

func (a *App) Set(ctx context.Context, args []string) error {
	if len(args) != 2 {
		printlnFn("Usage: set <name> <value>")
		return fmt.Errorf("expected <name> <value>")
	}
	if err := a.prefs.Set(ctx, args[0], args[1]); err != nil {
		return report(err)
	}
	a.workflow.Refresh(ctx)
	f, _ := prefs.Lookup(args[0])
	printlnFn(fmt.Sprintf("%s = %s", f.Name, f.Describe(a.prefs.Current())))
	return nil
}

func (a *App) Defaults(ctx context.Context) error {
	if err := a.prefs.Reset(ctx); err != nil {
		return report(err)
	}
	a.workflow.Refresh(ctx)
	printlnFn("Preferences restored")
	return nil
}

func (a *App) Photos(ctx context.Context) error {
	if !a.photos.Refresh(ctx) {
		printlnFn("Photo album is unavailable")
		return common.ErrAlbumUnavailable
	}
	assets := a.photos.List(ctx)
	if len(assets) == 0 {
		printlnFn("Album is empty")
		return nil
	}
	for _, as := range assets {
		state := "ok"
		if !a.photos.Verify(ctx, as.Reference) {
			state = "corrupt"
		}
		printlnFn(fmt.Sprintf("%s  %s  %d bytes  %s",
			as.Reference, as.CreatedAt.Format(history.TimeLayout), as.Size, state))
	}
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	a.workflow.Reset()
	printlnFn("Capture reset")
	return nil
}
