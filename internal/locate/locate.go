// Package locate provides position sources for a capture: the device
// position (static or IP based) and the map view center.
package locate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/snaplocation/internal/common"
	"github.com/dmitrijs2005/snaplocation/internal/models"
	"github.com/dmitrijs2005/snaplocation/internal/netx"
)

// Locator samples a position.
type Locator interface {
	Locate(ctx context.Context) (models.Fix, error)
}

var now = time.Now

// StaticLocator reports a fixed device position.
type StaticLocator struct {
	fix     models.Fix
	enabled bool
}

func NewStaticLocator(lat, lon, alt float64, enabled bool) *StaticLocator {
	return &StaticLocator{
		fix: models.Fix{
			Coordinate: models.Coordinate{Latitude: lat, Longitude: lon},
			Altitude:   alt,
		},
		enabled: enabled,
	}
}

func (l *StaticLocator) Locate(ctx context.Context) (models.Fix, error) {
	if !l.enabled {
		return models.Fix{}, common.ErrPermissionDenied
	}
	f := l.fix
	f.Timestamp = now()
	return f, nil
}

// IPLocator asks an ip-api.com style endpoint for the device position.
type IPLocator struct {
	url       string
	userAgent string
	client    *http.Client
	enabled   bool
}

func NewIPLocator(url, userAgent string, client *http.Client, enabled bool) *IPLocator {
	if client == nil {
		client = &http.Client{}
	}
	return &IPLocator{url: url, userAgent: userAgent, client: client, enabled: enabled}
}

type ipResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (l *IPLocator) Locate(ctx context.Context) (models.Fix, error) {
	if !l.enabled {
		return models.Fix{}, common.ErrPermissionDenied
	}

	var resp ipResponse
	if err := netx.GetJSON(ctx, l.client, l.url, l.userAgent, &resp); err != nil {
		return models.Fix{}, fmt.Errorf("ip locate: %w", err)
	}
	if resp.Status != "success" {
		return models.Fix{}, fmt.Errorf("ip locate: status %q: %s", resp.Status, resp.Message)
	}

	return models.Fix{
		Coordinate: models.Coordinate{Latitude: resp.Lat, Longitude: resp.Lon},
		Timestamp:  now(),
	}, nil
}

// CenterSource is implemented by *mapview.View.
type CenterSource interface {
	Center() models.Coordinate
}

// CenterLocator reports the current map center. It never needs permission.
type CenterLocator struct {
	view CenterSource
}

func NewCenterLocator(view CenterSource) *CenterLocator {
	return &CenterLocator{view: view}
}

func (l *CenterLocator) Locate(ctx context.Context) (models.Fix, error) {
	return models.Fix{Coordinate: l.view.Center(), Timestamp: now()}, nil
}
