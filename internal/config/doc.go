// Package config loads runtime configuration for the SnapLocation CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "database_driver": "sqlite",
//	  "database_dsn": "snaplocation.db",
//	  "photo_backend": "fs",
//	  "album_root": "photos",
//	  "geocoder_url": "https://nominatim.openstreetmap.org",
//	  "geocode_timeout": "10s",
//	  "device_source": "static",
//	  "device_latitude": 40.74844,
//	  "device_longitude": -73.98566
//	}
//
// Fields absent from the JSON file keep their default values.
package config
