package capture

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/snaplocation/internal/models"
	"github.com/dmitrijs2005/snaplocation/internal/prefs"
)

// TimeLayout formats capture timestamps, e.g. "5/1/24 3:04 PM".
const TimeLayout = "1/2/06 3:04 PM"

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Compose builds the info text for r from the fields enabled in p. Lines
// keep a fixed order (street, location, zipcode, latitude, longitude,
// gpstime, altitude, vertical accuracy, horizontal accuracy) and are joined
// by "\n" with no leading or trailing separator.
func Compose(r models.LocationRecord, p prefs.Preferences) string {
	var lines []string
	add := func(label, value string) {
		lines = append(lines, " "+label+": "+value)
	}

	if p.IncludeAddressInfo {
		add("street", r.Street)
	}
	if p.IncludeLocationInfo {
		add("location", r.Location)
	}
	if p.IncludeZipcodeInfo {
		add("zipcode", r.Zipcode)
	}
	if p.IncludeLatitudeAndLongitudeInfo {
		add("latitude", r.Latitude)
		add("longitude", r.Longitude)
	}
	if p.IncludeGPSDateTimeInfo {
		add("gpstime", r.Timestamp.Format(TimeLayout))
	}
	if p.IncludeAltitudeInfo {
		add("altitude", formatFloat(r.Altitude))
	}
	if p.IncludeVerticalAccuracyInfo {
		add("vertical accuracy", formatFloat(r.VerticalAccuracy))
	}
	if p.IncludeHorizontalAccuracyInfo {
		add("horizontal accuracy", formatFloat(r.HorizontalAccuracy))
	}

	return strings.Join(lines, "\n")
}
