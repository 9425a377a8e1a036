// Package mapview keeps the in-memory state of the map: its center, the
// visible region radius, the map type and whether the location pin shows.
package mapview

import (
	"github.com/dmitrijs2005/snaplocation/internal/models"
	"github.com/dmitrijs2005/snaplocation/internal/prefs"
)

// ZoomFactor converts a zoomLevel preference into a region radius in meters.
const ZoomFactor = 50

// View is the map view state. It is owned by the UI goroutine.
type View struct {
	center  models.Coordinate
	radius  float64
	mapType models.MapType
	showPin bool
}

// New returns a view centered on c with default preferences applied.
func New(c models.Coordinate) *View {
	v := &View{center: c}
	v.ApplyPreferences(prefs.Defaults())
	return v
}

// RadiusFor returns the region radius for a zoom level.
func RadiusFor(zoomLevel int) float64 {
	return float64(zoomLevel * ZoomFactor)
}

// ApplyPreferences updates type, pin and radius from p.
func (v *View) ApplyPreferences(p prefs.Preferences) {
	v.mapType = models.MapType(p.MapTypeIndex)
	v.showPin = p.DisplayLocationPin
	v.radius = RadiusFor(p.ZoomLevel)
}

// CenterOn moves the view to c showing the given radius.
func (v *View) CenterOn(c models.Coordinate, radius float64) {
	v.center = c
	if radius > 0 {
		v.radius = radius
	}
}

// SetCenter pans the view without changing the radius.
func (v *View) SetCenter(c models.Coordinate) {
	v.center = c
}

func (v *View) Center() models.Coordinate { return v.center }
func (v *View) Radius() float64           { return v.radius }
func (v *View) Type() models.MapType      { return v.mapType }
func (v *View) ShowPin() bool             { return v.showPin }
