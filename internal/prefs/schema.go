// Package prefs holds the user preferences: a fixed, typed schema with
// defaults, persisted as key/value pairs in the metadata table.
package prefs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/snaplocation/internal/common"
)

// LocateAction selects where a capture takes its coordinate from.
const (
	LocateUserLocation = 0
	LocateScreenCenter = 1
)

// Preferences is the typed view of every user option.
type Preferences struct {
	MapTypeIndex       int
	ZoomLevel          int
	SaveToPhotosAlbum  bool
	SaveToPasteboard   bool
	SaveToHistory      bool
	LocateActionIndex  int
	DisplayLocationPin bool

	// ZoomLevelToHideUserLocation hides the pin in captures taken below
	// this zoom level.
	ZoomLevelToHideUserLocation int

	IncludeLocationInfo             bool
	IncludeLatitudeAndLongitudeInfo bool
	IncludeGPSDateTimeInfo          bool
	IncludeAddressInfo              bool
	IncludeZipcodeInfo              bool
	IncludeAltitudeInfo             bool
	IncludeVerticalAccuracyInfo     bool
	IncludeHorizontalAccuracyInfo   bool
}

// PinVisible reports whether captures show the location pin.
func (p Preferences) PinVisible() bool {
	return p.DisplayLocationPin && p.ZoomLevel >= p.ZoomLevelToHideUserLocation
}

// Defaults returns the factory settings.
func Defaults() Preferences {
	return Preferences{
		MapTypeIndex:       2,
		ZoomLevel:          10,
		SaveToPhotosAlbum:  true,
		SaveToPasteboard:   true,
		SaveToHistory:      true,
		LocateActionIndex:  LocateScreenCenter,
		DisplayLocationPin: true,

		ZoomLevelToHideUserLocation: 6,

		IncludeLocationInfo:             true,
		IncludeLatitudeAndLongitudeInfo: true,
		IncludeGPSDateTimeInfo:          true,
	}
}

// Kind is the value type of a preference.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return "enum"
	}
}

// Field describes one preference: its storage key, type and valid range.
type Field struct {
	Name string
	Kind Kind

	// Min and Max bound KindInt values.
	Min, Max int

	// Options name the indices of a KindEnum value.
	Options []string

	boolPtr func(p *Preferences) *bool
	intPtr  func(p *Preferences) *int
}

func boolField(name string, ptr func(p *Preferences) *bool) Field {
	return Field{Name: name, Kind: KindBool, boolPtr: ptr}
}

func intField(name string, min, max int, ptr func(p *Preferences) *int) Field {
	return Field{Name: name, Kind: KindInt, Min: min, Max: max, intPtr: ptr}
}

func enumField(name string, options []string, ptr func(p *Preferences) *int) Field {
	return Field{Name: name, Kind: KindEnum, Min: 0, Max: len(options) - 1, Options: options, intPtr: ptr}
}

// Schema lists every preference in display order.
var Schema = []Field{
	enumField("mapTypeIndex", []string{"standard", "satellite", "hybrid"}, func(p *Preferences) *int { return &p.MapTypeIndex }),
	intField("zoomLevel", 1, 30, func(p *Preferences) *int { return &p.ZoomLevel }),
	boolField("saveToPhotosAlbum", func(p *Preferences) *bool { return &p.SaveToPhotosAlbum }),
	boolField("saveToPasteboard", func(p *Preferences) *bool { return &p.SaveToPasteboard }),
	boolField("saveToHistory", func(p *Preferences) *bool { return &p.SaveToHistory }),
	enumField("locateActionIndex", []string{"user", "center"}, func(p *Preferences) *int { return &p.LocateActionIndex }),
	boolField("displayLocationPin", func(p *Preferences) *bool { return &p.DisplayLocationPin }),
	intField("zoomLevelToHideUserLocation", 1, 30, func(p *Preferences) *int { return &p.ZoomLevelToHideUserLocation }),
	boolField("includeLocationInfo", func(p *Preferences) *bool { return &p.IncludeLocationInfo }),
	boolField("includeLatitudeAndLongitudeInfo", func(p *Preferences) *bool { return &p.IncludeLatitudeAndLongitudeInfo }),
	boolField("includeGPSDateTimeInfo", func(p *Preferences) *bool { return &p.IncludeGPSDateTimeInfo }),
	boolField("includeAddressInfo", func(p *Preferences) *bool { return &p.IncludeAddressInfo }),
	boolField("includeZipcodeInfo", func(p *Preferences) *bool { return &p.IncludeZipcodeInfo }),
	boolField("includeAltitudeInfo", func(p *Preferences) *bool { return &p.IncludeAltitudeInfo }),
	boolField("includeVerticalAccuracyInfo", func(p *Preferences) *bool { return &p.IncludeVerticalAccuracyInfo }),
	boolField("includeHorizontalAccuracyInfo", func(p *Preferences) *bool { return &p.IncludeHorizontalAccuracyInfo }),
}

// Lookup finds a field by name (case-insensitive).
func Lookup(name string) (Field, error) {
	for _, f := range Schema {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("%w: %s", common.ErrUnknownPreference, name)
}

// Format renders the field's current value in its storage form.
func (f Field) Format(p Preferences) string {
	if f.Kind == KindBool {
		return strconv.FormatBool(*f.boolPtr(&p))
	}
	return strconv.Itoa(*f.intPtr(&p))
}

// Describe renders the value for display; enums show their option name.
func (f Field) Describe(p Preferences) string {
	if f.Kind == KindEnum {
		i := *f.intPtr(&p)
		return fmt.Sprintf("%d (%s)", i, f.Options[i])
	}
	return f.Format(p)
}

// Apply validates raw and stores it into p. Enum fields also accept an
// option name.
func (f Field) Apply(p *Preferences, raw string) error {
	raw = strings.TrimSpace(raw)

	if f.Kind == KindBool {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a bool", common.ErrInvalidPreference, f.Name, raw)
		}
		*f.boolPtr(p) = v
		return nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil && f.Kind == KindEnum {
		v, err = f.optionIndex(raw)
	}
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a number", common.ErrInvalidPreference, f.Name, raw)
	}
	if v < f.Min || v > f.Max {
		return fmt.Errorf("%w: %s=%d out of range %d..%d", common.ErrInvalidPreference, f.Name, v, f.Min, f.Max)
	}
	*f.intPtr(p) = v
	return nil
}

func (f Field) optionIndex(name string) (int, error) {
	for i, o := range f.Options {
		if strings.EqualFold(o, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown option %q", name)
}
