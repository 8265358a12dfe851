package domain

import "fmt"

// TemperatureUnit names a temperature scale.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "Celsius"
	Fahrenheit TemperatureUnit = "Fahrenheit"
	Kelvin     TemperatureUnit = "Kelvin"
)

// TemperatureUnits lists the supported scales in display order.
var TemperatureUnits = []TemperatureUnit{Celsius, Fahrenheit, Kelvin}

// kelvinOffset is the Celsius value of 0 K, negated.
const kelvinOffset = 273.15

var temperatureAliases = map[string]TemperatureUnit{
	"c": Celsius, "celsius": Celsius, "°c": Celsius, "centigrade": Celsius,
	"f": Fahrenheit, "fahrenheit": Fahrenheit, "°f": Fahrenheit,
	"k": Kelvin, "kelvin": Kelvin,
}

// ParseTemperatureUnit resolves a scale name or single-letter symbol, ignoring case.
func ParseTemperatureUnit(s string) (TemperatureUnit, error) {
	if u, ok := temperatureAliases[normalizeName(s)]; ok {
		return u, nil
	}
	return "", fmt.Errorf("temperature unit %q: %w", s, ErrUnknownUnit)
}

func (u TemperatureUnit) String() string { return string(u) }

// ConvertTemperature converts value between scales through Celsius.
// Negative Kelvin values pass through unchecked.
func ConvertTemperature(value float64, from, to TemperatureUnit) (float64, error) {
	var c float64
	switch from {
	case Celsius:
		c = value
	case Fahrenheit:
		c = (value - 32) * 5 / 9
	case Kelvin:
		c = value - kelvinOffset
	default:
		return 0, fmt.Errorf("temperature unit %q: %w", from, ErrUnknownUnit)
	}

	switch to {
	case Celsius:
		return c, nil
	case Fahrenheit:
		return c*9/5 + 32, nil
	case Kelvin:
		return c + kelvinOffset, nil
	default:
		return 0, fmt.Errorf("temperature unit %q: %w", to, ErrUnknownUnit)
	}
}
