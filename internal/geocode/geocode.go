// Package geocode resolves coordinates into postal addresses using a
// Nominatim-compatible reverse geocoding endpoint. Results are cached per
// coordinate (rounded to 5 decimal places).
package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/snaplocation/internal/common"
	"github.com/dmitrijs2005/snaplocation/internal/logging"
	"github.com/dmitrijs2005/snaplocation/internal/models"
	"github.com/dmitrijs2005/snaplocation/internal/netx"
	"github.com/patrickmn/go-cache"
)

// Geocoder turns a Fix into a Placemark.
type Geocoder interface {
	Reverse(ctx context.Context, fix models.Fix) (models.Placemark, error)
}

// Config configures a Nominatim client.
type Config struct {
	BaseURL   string
	UserAgent string
	// Timeout bounds one request; zero means no timeout.
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Nominatim is a Geocoder backed by the Nominatim /reverse API.
type Nominatim struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	client    *http.Client
	cache     *cache.Cache
	logger    logging.Logger
}

// NewNominatim constructs a Nominatim geocoder. A nil client uses a fresh
// http.Client.
func NewNominatim(cfg Config, client *http.Client, logger logging.Logger) *Nominatim {
	if client == nil {
		client = &http.Client{}
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		client:    client,
		cache:     cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		logger:    logger,
	}
}

type reverseResponse struct {
	Error   string `json:"error"`
	Address struct {
		HouseNumber string `json:"house_number"`
		Road        string `json:"road"`
		Pedestrian  string `json:"pedestrian"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		Hamlet      string `json:"hamlet"`
		Suburb      string `json:"suburb"`
		State       string `json:"state"`
		Region      string `json:"region"`
		County      string `json:"county"`
		Postcode    string `json:"postcode"`
	} `json:"address"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (r *reverseResponse) placemark() models.Placemark {
	a := r.Address
	road := firstNonEmpty(a.Road, a.Pedestrian)
	street := strings.TrimSpace(a.HouseNumber + " " + road)
	if road == "" {
		street = ""
	}
	return models.Placemark{
		Street:             street,
		Locality:           firstNonEmpty(a.City, a.Town, a.Village, a.Hamlet, a.Suburb),
		AdministrativeArea: firstNonEmpty(a.State, a.Region, a.County),
		PostalCode:         a.Postcode,
	}
}

func cacheKey(c models.Coordinate) string {
	return models.FormatDegrees(c.Latitude) + "," + models.FormatDegrees(c.Longitude)
}

// Reverse looks up fix. A response without an address is
// common.ErrNoResults; transport and HTTP failures are returned wrapped.
func (n *Nominatim) Reverse(ctx context.Context, fix models.Fix) (models.Placemark, error) {
	key := cacheKey(fix.Coordinate)
	if cached, found := n.cache.Get(key); found {
		p := cached.(models.Placemark)
		p.Fix = fix
		n.logger.Debug(ctx, "geocode cache hit", "key", key)
		return p, nil
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", models.FormatDegrees(fix.Latitude))
	q.Set("lon", models.FormatDegrees(fix.Longitude))
	endpoint := n.baseURL + "/reverse?" + q.Encode()

	var resp reverseResponse
	if err := netx.GetJSON(ctx, n.client, endpoint, n.userAgent, &resp); err != nil {
		return models.Placemark{}, fmt.Errorf("reverse geocode: %w", err)
	}
	if resp.Error != "" {
		return models.Placemark{}, fmt.Errorf("%w: %s", common.ErrNoResults, resp.Error)
	}

	p := resp.placemark()
	if p == (models.Placemark{}) {
		return models.Placemark{}, common.ErrNoResults
	}

	n.cache.Set(key, p, cache.DefaultExpiration)
	p.Fix = fix
	return p, nil
}

// Flush drops every cached result.
func (n *Nominatim) Flush() {
	n.cache.Flush()
}
