package config

import "time"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"

	BackendFS = "fs"
	BackendS3 = "s3"

	DeviceStatic = "static"
	DeviceIP     = "ip"
)

// Config holds runtime settings for the SnapLocation CLI.
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string

	PhotoBackend     string
	AlbumRoot        string
	PhotosAuthorized bool
	S3RootUser       string
	S3RootPassword   string
	S3Bucket         string
	S3Region         string
	S3BaseEndpoint   string

	LocationEnabled bool
	DeviceSource    string
	DeviceLatitude  float64
	DeviceLongitude float64
	DeviceAltitude  float64
	IPLocatorURL    string

	GeocoderURL     string
	UserAgent       string
	GeocodeTimeout  time.Duration
	GeocodeCacheTTL time.Duration

	ScreenWidth     int
	ScreenHeight    int
	BackgroundImage string

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "snaplocation.db"

	c.PhotoBackend = BackendFS
	c.AlbumRoot = "photos"
	c.PhotosAuthorized = true
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "snaplocation"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"

	c.LocationEnabled = true
	c.DeviceSource = DeviceStatic
	c.DeviceLatitude = 40.74844
	c.DeviceLongitude = -73.98566
	c.IPLocatorURL = "http://ip-api.com/json/"

	c.GeocoderURL = "https://nominatim.openstreetmap.org"
	c.UserAgent = "SnapLocation/1.0"
	c.GeocodeTimeout = 10 * time.Second
	c.GeocodeCacheTTL = 10 * time.Minute

	c.ScreenWidth = 750
	c.ScreenHeight = 1334

	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if -c/-config is present in args) and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
