package models

import (
	"fmt"
	"strconv"
	"time"
)

// LocationRecord is one persisted capture. Records are never mutated after
// they are stored; they are only deleted.
type LocationRecord struct {
	// ID is assigned by the record store as max(existing)+1, starting at 0.
	ID int64

	Timestamp time.Time

	Street   string
	Location string
	Zipcode  string

	// Latitude and Longitude keep the exact display form ("%.5f").
	Latitude  string
	Longitude string

	Altitude           float64
	VerticalAccuracy   float64
	HorizontalAccuracy float64

	// ViewRadius is the map radius in effect when the record was captured.
	ViewRadius float64

	// PhotoReference is empty when no photo was saved.
	PhotoReference string
}

// HasPhoto reports whether the record points at a saved asset.
func (r LocationRecord) HasPhoto() bool {
	return r.PhotoReference != ""
}

// Coordinate parses the stored latitude/longitude strings.
func (r LocationRecord) Coordinate() (Coordinate, error) {
	lat, err := strconv.ParseFloat(r.Latitude, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("bad latitude %q: %w", r.Latitude, err)
	}
	lon, err := strconv.ParseFloat(r.Longitude, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("bad longitude %q: %w", r.Longitude, err)
	}
	return Coordinate{Latitude: lat, Longitude: lon}, nil
}

// FormatDegrees renders a coordinate component with 5 fractional digits.
func FormatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', 5, 64)
}
