package layout

import (
	"strconv"
	"strings"
)

// This file defines pixel values, unit providers and the length notation used by the DSL.

// Pixel is an absolute pixel magnitude produced by unit conversion.
type Pixel float64

// Px wraps an absolute pixel amount.
func Px(v float64) Pixel { return Pixel(v) }

// Value returns the pixel amount as a plain float.
func (p Pixel) Value() float64 { return float64(p) }

// Unit converts a logical value into absolute pixels.
type Unit interface {
	ToPixels(v float64) Pixel
}

type identityUnit struct{}

func (identityUnit) ToPixels(v float64) Pixel { return Pixel(v) }

// Identity performs a 1:1 conversion and is used whenever no unit is supplied.
var Identity Unit = identityUnit{}

// DensityUnit maps density independent values (dp) to pixels.
type DensityUnit struct {
	Scale float64
}

func (u DensityUnit) ToPixels(v float64) Pixel {
	if u.Scale <= 0 {
		return Pixel(v)
	}
	return Pixel(v * u.Scale)
}

// Kind is the unit a length was written with in the DSL.
type Kind int

const (
	KindNone    Kind = iota // bare numbers, converted by the frame unit
	KindPX                  // absolute pixels
	KindDP                  // density independent pixels
	KindMM                  // millimeters
	KindCM                  // centimeters
	KindIN                  // inches
	KindPT                  // points
	KindPercent             // fraction of the axis reference
)

// Conversion constants between physical units and inches.
const (
	MmPerInch = 25.4
	PtPerInch = 72.0

	// DefaultDPI is the pixel density assumed when a frame does not declare one.
	DefaultDPI = 160.0
)

// KindToString returns a short string for a Kind value.
func KindToString(k Kind) string {
	switch k {
	case KindPX:
		return "px"
	case KindDP:
		return "dp"
	case KindMM:
		return "mm"
	case KindCM:
		return "cm"
	case KindIN:
		return "in"
	case KindPT:
		return "pt"
	case KindPercent:
		return "%"
	default:
		return ""
	}
}

// PhysicalUnit converts a physical length to pixels at the given density.
type PhysicalUnit struct {
	Kind Kind
	DPI  float64
}

func (u PhysicalUnit) ToPixels(v float64) Pixel {
	dpi := u.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	var inches float64
	switch u.Kind {
	case KindMM:
		inches = v / MmPerInch
	case KindCM:
		inches = v * 10 / MmPerInch
	case KindIN:
		inches = v
	case KindPT:
		inches = v / PtPerInch
	default:
		return Pixel(v)
	}
	return Pixel(inches * dpi)
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Kind  Kind    `json:"kind"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// IsLogical reports whether the length must go through the frame unit provider.
func (l Length) IsLogical() bool { return l.Kind == KindNone || l.Kind == KindDP }

// Pixels resolves the length against a unit provider, a DPI for physical units and a
// reference extent for percentages.
func (l Length) Pixels(unit Unit, dpi, reference float64) Pixel {
	switch l.Kind {
	case KindPX:
		return Pixel(l.Value)
	case KindNone, KindDP:
		if unit == nil {
			unit = Identity
		}
		return unit.ToPixels(l.Value)
	case KindPercent:
		return Pixel(reference * l.Value / 100)
	default:
		return PhysicalUnit{Kind: l.Kind, DPI: dpi}.ToPixels(l.Value)
	}
}

// ParseLength parses a DSL length string preserving its unit.
func ParseLength(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	kind := KindNone
	num := v
	for _, suf := range []struct {
		s string
		k Kind
	}{{"px", KindPX}, {"dp", KindDP}, {"mm", KindMM}, {"cm", KindCM}, {"in", KindIN}, {"pt", KindPT}, {"%", KindPercent}} {
		if strings.HasSuffix(v, suf.s) {
			kind = suf.k
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Kind: kind}, true
}
