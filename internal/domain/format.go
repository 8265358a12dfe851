package domain

import "fmt"

// Placeholders shown in place of a numeric result.
const (
	InvalidInputText = "Invalid Input"
	LoadingText      = "Loading..."
	UnknownUnitText  = "Unknown Unit"
	NonPositiveText  = "Height and weight must be positive"
)

// Rate status labels.
const (
	StatusFetching = "Fetching rates..."
	StatusOffline  = "Using Offline Rates"
)

// UpdatedStatus formats the label for a live table fetched at hhmm ("15:04").
func UpdatedStatus(hhmm string) string {
	return "Updated: " + hhmm
}

// FormatLength renders a length result to four decimal places.
func FormatLength(v float64, unit LengthUnit) string {
	return fmt.Sprintf("%.4f %s", v, unit)
}

// FormatTemperature renders a temperature result to two decimal places.
func FormatTemperature(v float64, unit TemperatureUnit) string {
	return fmt.Sprintf("%.2f %s", v, unit)
}

// FormatCurrency renders a currency result to two decimal places.
func FormatCurrency(v float64, code CurrencyCode) string {
	return fmt.Sprintf("%.2f %s", v, code)
}

// FormatBMI renders a BMI value to one decimal place.
func FormatBMI(r BMIResult) string {
	return fmt.Sprintf("BMI: %.1f", r.BMI)
}
