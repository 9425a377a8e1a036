package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/snaplocation/internal/flagx"
)

var knownFlags = []string{
	"-driver", "-d", "-backend", "-album", "-photos-authorized",
	"-u", "-p", "-b", "-g", "-e",
	"-location-enabled", "-device", "-lat", "-lon", "-alt", "-ip-url",
	"-geocoder", "-ua", "-t", "-cache-ttl",
	"-w", "-h", "-background", "-log-level",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-driver string          database driver: sqlite | pgx
//	-d string               database DSN
//	-backend string         photo backend: fs | s3
//	-album string           album root directory (fs backend)
//	-photos-authorized      whether photo library access is granted
//	-u, -p string           S3 user / password
//	-b, -g, -e string       S3 bucket / region / base endpoint
//	-location-enabled       whether location access is granted
//	-device string          device position source: static | ip
//	-lat, -lon, -alt float  static device position
//	-ip-url string          IP locator endpoint
//	-geocoder string        reverse geocoder base URL
//	-ua string              HTTP User-Agent
//	-t int                  geocode timeout (seconds, 0 = none)
//	-cache-ttl int          geocode cache TTL (seconds)
//	-w, -h int              screenshot size in pixels
//	-background string      background image for screenshots
//	-log-level string       debug | info | warn | error
//
// Only the flags listed above are considered; everything else in args is
// filtered out by flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabaseDriver, "driver", cfg.DatabaseDriver, "database driver")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")

	fs.StringVar(&cfg.PhotoBackend, "backend", cfg.PhotoBackend, "photo backend")
	fs.StringVar(&cfg.AlbumRoot, "album", cfg.AlbumRoot, "album root directory")
	fs.BoolVar(&cfg.PhotosAuthorized, "photos-authorized", cfg.PhotosAuthorized, "photo library access granted")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")

	fs.BoolVar(&cfg.LocationEnabled, "location-enabled", cfg.LocationEnabled, "location access granted")
	fs.StringVar(&cfg.DeviceSource, "device", cfg.DeviceSource, "device position source")
	fs.Float64Var(&cfg.DeviceLatitude, "lat", cfg.DeviceLatitude, "static device latitude")
	fs.Float64Var(&cfg.DeviceLongitude, "lon", cfg.DeviceLongitude, "static device longitude")
	fs.Float64Var(&cfg.DeviceAltitude, "alt", cfg.DeviceAltitude, "static device altitude")
	fs.StringVar(&cfg.IPLocatorURL, "ip-url", cfg.IPLocatorURL, "IP locator endpoint")

	fs.StringVar(&cfg.GeocoderURL, "geocoder", cfg.GeocoderURL, "reverse geocoder base URL")
	fs.StringVar(&cfg.UserAgent, "ua", cfg.UserAgent, "HTTP User-Agent")
	timeout := fs.Int("t", int(cfg.GeocodeTimeout.Seconds()), "geocode timeout (in seconds)")
	cacheTTL := fs.Int("cache-ttl", int(cfg.GeocodeCacheTTL.Seconds()), "geocode cache TTL (in seconds)")

	fs.IntVar(&cfg.ScreenWidth, "w", cfg.ScreenWidth, "screenshot width")
	fs.IntVar(&cfg.ScreenHeight, "h", cfg.ScreenHeight, "screenshot height")
	fs.StringVar(&cfg.BackgroundImage, "background", cfg.BackgroundImage, "screenshot background image")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := fs.Parse(filtered); err != nil {
		return err
	}

	cfg.GeocodeTimeout = time.Duration(*timeout) * time.Second
	cfg.GeocodeCacheTTL = time.Duration(*cacheTTL) * time.Second
	return nil
}
