package domain

import "fmt"

// LengthUnit names a unit of length.
type LengthUnit string

const (
	Meters      LengthUnit = "Meters"
	Kilometers  LengthUnit = "Kilometers"
	Centimeters LengthUnit = "Centimeters"
	Millimeters LengthUnit = "Millimeters"
	Miles       LengthUnit = "Miles"
	Yards       LengthUnit = "Yards"
	Feet        LengthUnit = "Feet"
	Inches      LengthUnit = "Inches"
)

// LengthUnits lists the supported units in display order.
var LengthUnits = []LengthUnit{Meters, Kilometers, Centimeters, Millimeters, Miles, Yards, Feet, Inches}

// lengthScale maps each unit to meters per unit. Every factor is strictly positive.
var lengthScale = map[LengthUnit]float64{
	Meters:      1,
	Kilometers:  1000,
	Centimeters: 0.01,
	Millimeters: 0.001,
	Miles:       1609.34,
	Yards:       0.9144,
	Feet:        0.3048,
	Inches:      0.0254,
}

var lengthAliases = map[string]LengthUnit{
	"m": Meters, "meter": Meters, "meters": Meters, "metre": Meters, "metres": Meters,
	"km": Kilometers, "kilometer": Kilometers, "kilometers": Kilometers, "kilometre": Kilometers, "kilometres": Kilometers,
	"cm": Centimeters, "centimeter": Centimeters, "centimeters": Centimeters,
	"mm": Millimeters, "millimeter": Millimeters, "millimeters": Millimeters,
	"mi": Miles, "mile": Miles, "miles": Miles,
	"yd": Yards, "yard": Yards, "yards": Yards,
	"ft": Feet, "foot": Feet, "feet": Feet,
	"in": Inches, "inch": Inches, "inches": Inches,
}

// ParseLengthUnit resolves a unit name or abbreviation, ignoring case.
func ParseLengthUnit(s string) (LengthUnit, error) {
	if u, ok := lengthAliases[normalizeName(s)]; ok {
		return u, nil
	}
	return "", fmt.Errorf("length unit %q: %w", s, ErrUnknownUnit)
}

// Scale returns meters per unit, or false for an unknown unit.
func (u LengthUnit) Scale() (float64, bool) {
	f, ok := lengthScale[u]
	return f, ok
}

func (u LengthUnit) String() string { return string(u) }

// ConvertLength converts value between two length units. The result is not rounded.
func ConvertLength(value float64, from, to LengthUnit) (float64, error) {
	fromScale, ok := from.Scale()
	if !ok {
		return 0, fmt.Errorf("length unit %q: %w", from, ErrUnknownUnit)
	}
	toScale, ok := to.Scale()
	if !ok {
		return 0, fmt.Errorf("length unit %q: %w", to, ErrUnknownUnit)
	}
	return value * fromScale / toScale, nil
}
