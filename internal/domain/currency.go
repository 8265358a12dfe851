package domain

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// CurrencyCode is an upper-case three-letter currency code.
type CurrencyCode string

// BaseCurrency is the pivot; its rate is implicitly 1.0.
const BaseCurrency CurrencyCode = "USD"

// SupportedCurrencies lists the codes offered for selection, in display order.
var SupportedCurrencies = []CurrencyCode{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "CHF", "CNY", "INR", "BRL"}

// ParseCurrencyCode normalizes s to upper case and checks it is three ASCII letters.
// Codes outside SupportedCurrencies are accepted; the rate table decides.
func ParseCurrencyCode(s string) (CurrencyCode, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if len(code) != 3 {
		return "", fmt.Errorf("currency code %q: %w", s, ErrUnknownUnit)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", fmt.Errorf("currency code %q: %w", s, ErrUnknownUnit)
		}
	}
	return CurrencyCode(code), nil
}

func (c CurrencyCode) String() string { return string(c) }

// RateTable maps a currency code to units of that currency per 1 USD.
// Tables are replaced wholesale, never merged.
type RateTable map[CurrencyCode]float64

// Clone returns an independent copy of the table.
func (t RateTable) Clone() RateTable {
	return maps.Clone(t)
}

// Validate reports an error if the table is empty or holds a rate that is
// not a positive finite number.
func (t RateTable) Validate() error {
	if len(t) == 0 {
		return errors.New("empty rate table")
	}
	for code, rate := range t {
		if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return fmt.Errorf("invalid rate %v for %s", rate, code)
		}
	}
	return nil
}

// FallbackRates returns the fixed offline table covering exactly SupportedCurrencies.
func FallbackRates() RateTable {
	return RateTable{
		"USD": 1.0,
		"EUR": 0.92,
		"GBP": 0.79,
		"INR": 83.10,
		"JPY": 147.5,
		"CAD": 1.36,
		"AUD": 1.52,
		"CHF": 0.88,
		"CNY": 7.25,
		"BRL": 4.95,
	}
}

// CurrencyResult is a converted amount plus any codes that were missing from
// the rate table and therefore converted at parity with USD.
type CurrencyResult struct {
	Value        float64
	MissingRates []CurrencyCode
}

// ConvertCurrency converts value from one currency to another through USD.
// It returns ErrNotLoaded when rates is empty.
func ConvertCurrency(value float64, from, to CurrencyCode, rates RateTable) (CurrencyResult, error) {
	if len(rates) == 0 {
		return CurrencyResult{}, ErrNotLoaded
	}

	var res CurrencyResult
	usd := value
	if from != BaseCurrency {
		usd = value / res.rate(rates, from)
	}
	res.Value = usd
	if to != BaseCurrency {
		res.Value = usd * res.rate(rates, to)
	}
	return res, nil
}

// rate looks up code, substituting parity and recording the gap when absent.
func (r *CurrencyResult) rate(rates RateTable, code CurrencyCode) float64 {
	if v, ok := rates[code]; ok {
		return v
	}
	if !slices.Contains(r.MissingRates, code) {
		r.MissingRates = append(r.MissingRates, code)
	}
	return 1.0
}

// RateSource records where a published rate table came from.
type RateSource string

const (
	RateSourceLive    RateSource = "live"
	RateSourceOffline RateSource = "offline"
)

// RateFetcher retrieves the latest rate table quoted against base.
type RateFetcher interface {
	FetchRates(ctx context.Context, base CurrencyCode) (RateTable, error)
}
