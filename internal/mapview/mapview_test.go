package mapview

import (
	"testing"

	"github.com/dmitrijs2005/snaplocation/internal/models"
	"github.com/dmitrijs2005/snaplocation/internal/prefs"
	"github.com/stretchr/testify/assert"
)

func TestNew_UsesDefaultPreferences(t *testing.T) {
	v := New(models.Coordinate{Latitude: 1, Longitude: 2})

	assert.Equal(t, 500.0, v.Radius())
	assert.Equal(t, models.MapHybrid, v.Type())
	assert.True(t, v.ShowPin())
	assert.Equal(t, models.Coordinate{Latitude: 1, Longitude: 2}, v.Center())
}

func TestApplyPreferences(t *testing.T) {
	v := New(models.Coordinate{})
	p := prefs.Defaults()
	p.ZoomLevel = 3
	p.MapTypeIndex = 1
	p.DisplayLocationPin = false

	v.ApplyPreferences(p)
	assert.Equal(t, 150.0, v.Radius())
	assert.Equal(t, models.MapSatellite, v.Type())
	assert.False(t, v.ShowPin())
}

func TestCenterOnAndSetCenter(t *testing.T) {
	v := New(models.Coordinate{})
	target := models.Coordinate{Latitude: 48.85837, Longitude: 2.29448}

	v.CenterOn(target, 1200)
	assert.Equal(t, target, v.Center())
	assert.Equal(t, 1200.0, v.Radius())

	v.CenterOn(models.Coordinate{Latitude: 1}, 0)
	assert.Equal(t, 1200.0, v.Radius(), "zero radius keeps the current one")

	v.SetCenter(models.Coordinate{Latitude: 5, Longitude: 6})
	assert.Equal(t, models.Coordinate{Latitude: 5, Longitude: 6}, v.Center())
	assert.Equal(t, 1200.0, v.Radius())
}
