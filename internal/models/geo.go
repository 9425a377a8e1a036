package models

import (
	"strings"
	"time"
)

// Coordinate is a WGS84 position in decimal degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Fix is a sampled position, either from the device or from the map center.
type Fix struct {
	Coordinate
	Altitude           float64
	VerticalAccuracy   float64
	HorizontalAccuracy float64
	Timestamp          time.Time
}

// Placemark is a reverse geocoding result for a Fix.
type Placemark struct {
	Street             string
	Locality           string
	AdministrativeArea string
	PostalCode         string
	Fix                Fix
}

// Location joins locality and administrative area as "<city>, <region>".
func (p Placemark) Location() string {
	return strings.Join([]string{p.Locality, p.AdministrativeArea}, ", ")
}

// Record builds a LocationRecord from the placemark. The id, view radius and
// photo reference are filled in later by the capture workflow.
func (p Placemark) Record() LocationRecord {
	return LocationRecord{
		Timestamp:          p.Fix.Timestamp,
		Street:             p.Street,
		Location:           p.Location(),
		Zipcode:            p.PostalCode,
		Latitude:           FormatDegrees(p.Fix.Latitude),
		Longitude:          FormatDegrees(p.Fix.Longitude),
		Altitude:           p.Fix.Altitude,
		VerticalAccuracy:   p.Fix.VerticalAccuracy,
		HorizontalAccuracy: p.Fix.HorizontalAccuracy,
	}
}

// MapType selects the map rendering style.
type MapType int

const (
	MapStandard MapType = iota
	MapSatellite
	MapHybrid
)

var mapTypeNames = []string{"standard", "satellite", "hybrid"}

func (m MapType) String() string {
	if m < 0 || int(m) >= len(mapTypeNames) {
		return "unknown"
	}
	return mapTypeNames[m]
}
