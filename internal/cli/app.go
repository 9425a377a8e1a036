package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/snaplocation/internal/capture"
	"github.com/dmitrijs2005/snaplocation/internal/clipboard"
	"github.com/dmitrijs2005/snaplocation/internal/config"
	"github.com/dmitrijs2005/snaplocation/internal/geocode"
	"github.com/dmitrijs2005/snaplocation/internal/history"
	"github.com/dmitrijs2005/snaplocation/internal/locate"
	"github.com/dmitrijs2005/snaplocation/internal/logging"
	"github.com/dmitrijs2005/snaplocation/internal/mapview"
	"github.com/dmitrijs2005/snaplocation/internal/models"
	"github.com/dmitrijs2005/snaplocation/internal/photos"
	"github.com/dmitrijs2005/snaplocation/internal/prefs"
	"github.com/dmitrijs2005/snaplocation/internal/render"
	"github.com/dmitrijs2005/snaplocation/internal/services"
	"github.com/dmitrijs2005/snaplocation/internal/storage"
)

// Test seams for process-level dependencies.
var (
	logOutput     io.Writer = os.Stderr
	newHTTPClient           = func() *http.Client { return &http.Client{} }
	newClipboard            = clipboard.Detect
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	prefs    *prefs.Store
	view     *mapview.View
	photos   photos.Store
	records  services.RecordStore
	workflow *capture.Workflow
	history  *history.List

	in      io.Reader
	out     io.Writer
	scanner *bufio.Scanner

	closeOnce sync.Once
}

// NewApp wires every service from c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(logOutput, c.LogLevel)

	db, manager, err := storage.InitDatabase(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	ps := prefs.NewStore(manager.Metadata(db), logger)
	current := ps.Load(ctx)

	view := mapview.New(models.Coordinate{Latitude: c.DeviceLatitude, Longitude: c.DeviceLongitude})
	view.ApplyPreferences(current)

	client := newHTTPClient()

	var device locate.Locator
	switch c.DeviceSource {
	case config.DeviceIP:
		device = locate.NewIPLocator(c.IPLocatorURL, c.UserAgent, client, c.LocationEnabled)
	default:
		device = locate.NewStaticLocator(c.DeviceLatitude, c.DeviceLongitude, c.DeviceAltitude, c.LocationEnabled)
	}

	geocoder := geocode.NewNominatim(geocode.Config{
		BaseURL:   c.GeocoderURL,
		UserAgent: c.UserAgent,
		Timeout:   c.GeocodeTimeout,
		CacheTTL:  c.GeocodeCacheTTL,
	}, client, logger)

	renderer, err := render.New(c.ScreenWidth, c.ScreenHeight, c.BackgroundImage)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	backend, err := newPhotoBackend(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	ph := photos.NewStore(backend, photos.AlbumName, logger)

	records := services.NewRecordStore(db, manager, logger)

	wf := capture.New(capture.Deps{
		Prefs:     ps,
		Device:    device,
		Center:    locate.NewCenterLocator(view),
		Geocoder:  geocoder,
		View:      view,
		Renderer:  renderer,
		Photos:    ph,
		Records:   records,
		Clipboard: newClipboard(),
	}, logger)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		prefs:    ps,
		view:     view,
		photos:   ph,
		records:  records,
		workflow: wf,
		history:  history.New(records, ph, view, logger),
		in:       os.Stdin,
		out:      os.Stdout,
	}, nil
}

func newPhotoBackend(ctx context.Context, c *config.Config) (photos.Backend, error) {
	switch c.PhotoBackend {
	case config.BackendS3:
		b, err := photos.NewS3Backend(ctx, photos.S3Config{
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Authorized:   c.PhotosAuthorized,
		})
		if err != nil {
			return nil, fmt.Errorf("error initializing photo storage: %w", err)
		}
		return b, nil
	case config.BackendFS, "":
		return photos.NewFSBackend(c.AlbumRoot, c.PhotosAuthorized), nil
	default:
		return nil, fmt.Errorf("unknown photo backend %q", c.PhotoBackend)
	}
}

func (a *App) status() string {
	return fmt.Sprintf("(%s)", a.workflow.State())
}

// Run starts the REPL on stdin and releases every resource when it ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.scanner = bufio.NewScanner(a.in)

	statusFn := a.status
	if f, ok := a.in.(*os.File); !ok || !isTerminal(int(f.Fd())) {
		statusFn = nil
	} else {
		printlnFn("Welcome to SnapLocation (type 'help' for commands)")
	}

	runREPL(ctx, a, statusFn, a.scanner)
}

// Close stops background work and closes the database.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.workflow.Close()
		if err := a.db.Close(); err != nil {
			a.logger.Error(context.Background(), "failed to close database", "error", err)
		}
	})
}
