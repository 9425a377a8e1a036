package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/snaplocation/internal/flagx"
	"github.com/dmitrijs2005/snaplocation/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// distinguish "absent" from zero values so absent keys keep their defaults.
type JsonConfig struct {
	DatabaseDriver *string `json:"database_driver"`
	DatabaseDSN    *string `json:"database_dsn"`

	PhotoBackend     *string `json:"photo_backend"`
	AlbumRoot        *string `json:"album_root"`
	PhotosAuthorized *bool   `json:"photos_authorized"`
	S3RootUser       *string `json:"s3_root_user"`
	S3RootPassword   *string `json:"s3_root_password"`
	S3Bucket         *string `json:"s3_bucket"`
	S3Region         *string `json:"s3_region"`
	S3BaseEndpoint   *string `json:"s3_base_endpoint"`

	LocationEnabled *bool    `json:"location_enabled"`
	DeviceSource    *string  `json:"device_source"`
	DeviceLatitude  *float64 `json:"device_latitude"`
	DeviceLongitude *float64 `json:"device_longitude"`
	DeviceAltitude  *float64 `json:"device_altitude"`
	IPLocatorURL    *string  `json:"ip_locator_url"`

	GeocoderURL     *string         `json:"geocoder_url"`
	UserAgent       *string         `json:"user_agent"`
	GeocodeTimeout  *timex.Duration `json:"geocode_timeout"`
	GeocodeCacheTTL *timex.Duration `json:"geocode_cache_ttl"`

	ScreenWidth     *int    `json:"screen_width"`
	ScreenHeight    *int    `json:"screen_height"`
	BackgroundImage *string `json:"background_image"`

	LogLevel *string `json:"log_level"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config
// in args. Without those flags it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	jc.apply(cfg)
	return nil
}

func (jc *JsonConfig) apply(cfg *Config) {
	set(&cfg.DatabaseDriver, jc.DatabaseDriver)
	set(&cfg.DatabaseDSN, jc.DatabaseDSN)

	set(&cfg.PhotoBackend, jc.PhotoBackend)
	set(&cfg.AlbumRoot, jc.AlbumRoot)
	set(&cfg.PhotosAuthorized, jc.PhotosAuthorized)
	set(&cfg.S3RootUser, jc.S3RootUser)
	set(&cfg.S3RootPassword, jc.S3RootPassword)
	set(&cfg.S3Bucket, jc.S3Bucket)
	set(&cfg.S3Region, jc.S3Region)
	set(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)

	set(&cfg.LocationEnabled, jc.LocationEnabled)
	set(&cfg.DeviceSource, jc.DeviceSource)
	set(&cfg.DeviceLatitude, jc.DeviceLatitude)
	set(&cfg.DeviceLongitude, jc.DeviceLongitude)
	set(&cfg.DeviceAltitude, jc.DeviceAltitude)
	set(&cfg.IPLocatorURL, jc.IPLocatorURL)

	set(&cfg.GeocoderURL, jc.GeocoderURL)
	set(&cfg.UserAgent, jc.UserAgent)
	if jc.GeocodeTimeout != nil {
		cfg.GeocodeTimeout = jc.GeocodeTimeout.Duration
	}
	if jc.GeocodeCacheTTL != nil {
		cfg.GeocodeCacheTTL = jc.GeocodeCacheTTL.Duration
	}

	set(&cfg.ScreenWidth, jc.ScreenWidth)
	set(&cfg.ScreenHeight, jc.ScreenHeight)
	set(&cfg.BackgroundImage, jc.BackgroundImage)

	set(&cfg.LogLevel, jc.LogLevel)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
