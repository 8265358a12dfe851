// Package domain implements the unit and currency conversion engine behind the
// utility hub: length, temperature, body mass index, and currency.
//
// # Pivot Units
//
// Every category routes pairwise conversions through one reference unit:
//
//	Length:      meters       result = value * scale(from) / scale(to)
//	Temperature: Celsius      value -> Celsius -> target (fixed formulas)
//	Currency:    USD          result = value / rate(from) * rate(to)
//
// Length scale factors are meters per unit. Miles use 1609.34, not the
// statute 1609.344, so results line up with the desktop converter the
// engine was extracted from.
//
// # Temperature
//
// Formulas are evaluated left to right exactly as written so results are
// bit-for-bit reproducible:
//
//	from Fahrenheit: c = (v - 32) * 5 / 9
//	from Kelvin:     c = v - 273.15
//	to Fahrenheit:   c * 9 / 5 + 32
//	to Kelvin:       c + 273.15
//
// Values below absolute zero are not rejected.
//
// # Body Mass Index
//
//	bmi = weight_kg / height_m^2
//
//	  bmi < 18.5        Underweight
//	  18.5 <= bmi < 25  Normal
//	  25 <= bmi < 30    Overweight
//	  bmi >= 30         Obese
//
// Progress is clamp((bmi - 10) / 30, 0, 1). The constants are display-only:
// the bar starts at BMI 10 and fills at BMI 40. It is not a clinical scale.
//
// # Currency Rates
//
// A [RateTable] holds units of each currency per 1 USD. Tables come from the
// remote rate service or, on any failure, from [FallbackRates]. A code missing
// from a loaded table converts at parity with USD and is reported back on the
// [CurrencyResult] so callers can warn about it.
package domain
