package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/utility-hub/internal/domain"
	"github.com/couchcryptid/utility-hub/internal/observability"
)

// ErrorKind tags a failed conversion for the presentation layer.
type ErrorKind string

const (
	KindNone               ErrorKind = ""
	KindInvalidInput       ErrorKind = "invalid_input"
	KindUnknownUnit        ErrorKind = "unknown_unit"
	KindNotLoaded          ErrorKind = "not_loaded"
	KindDomainPrecondition ErrorKind = "precondition"
)

// ConversionRequest is raw presentation input for a two-unit conversion.
type ConversionRequest struct {
	Input string
	From  string
	To    string
}

// BMIRequest is raw presentation input for a BMI classification.
type BMIRequest struct {
	Height string // meters
	Weight string // kilograms
}

// Result is either a value with its formatted text, or an error kind with a placeholder text.
type Result struct {
	Category domain.UnitCategory
	Value    float64
	Text     string
	Err      ErrorKind
	Warnings []string

	// BMI is set for successful BMI classifications only.
	BMI *domain.BMIResult
}

// OK reports whether the result carries a value.
func (r Result) OK() bool { return r.Err == KindNone }

// RateReader supplies the currently published rate table, or nil before publication.
type RateReader interface {
	Rates() domain.RateTable
}

// Service is the presentation-facing conversion facade. It holds no state
// beyond its rate reader and never panics on user input.
type Service struct {
	rates   RateReader
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService creates a Service reading currency rates from rates.
func NewService(rates RateReader, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{rates: rates, logger: logger, metrics: metrics}
}

// Length converts req.Input between length units.
func (s *Service) Length(req ConversionRequest) Result {
	res := s.length(req)
	s.record(res)
	return res
}

func (s *Service) length(req ConversionRequest) Result {
	res := Result{Category: domain.CategoryLength}
	v, err := domain.ParseValue(req.Input)
	if err != nil {
		return res.fail(err)
	}
	from, err := domain.ParseLengthUnit(req.From)
	if err != nil {
		return res.fail(err)
	}
	to, err := domain.ParseLengthUnit(req.To)
	if err != nil {
		return res.fail(err)
	}
	out, err := domain.ConvertLength(v, from, to)
	if err != nil {
		return res.fail(err)
	}
	res.Value = out
	res.Text = domain.FormatLength(out, to)
	return res
}

// Temperature converts req.Input between temperature scales.
func (s *Service) Temperature(req ConversionRequest) Result {
	res := s.temperature(req)
	s.record(res)
	return res
}

func (s *Service) temperature(req ConversionRequest) Result {
	res := Result{Category: domain.CategoryTemperature}
	v, err := domain.ParseValue(req.Input)
	if err != nil {
		return res.fail(err)
	}
	from, err := domain.ParseTemperatureUnit(req.From)
	if err != nil {
		return res.fail(err)
	}
	to, err := domain.ParseTemperatureUnit(req.To)
	if err != nil {
		return res.fail(err)
	}
	out, err := domain.ConvertTemperature(v, from, to)
	if err != nil {
		return res.fail(err)
	}
	res.Value = out
	res.Text = domain.FormatTemperature(out, to)
	return res
}

// BMI classifies height and weight. A failed result leaves the caller's
// previously displayed BMI untouched; only the error kind is reported.
func (s *Service) BMI(req BMIRequest) Result {
	res := s.bmi(req)
	s.record(res)
	return res
}

func (s *Service) bmi(req BMIRequest) Result {
	res := Result{Category: domain.CategoryBMI}
	h, err := domain.ParseValue(req.Height)
	if err != nil {
		return res.fail(err)
	}
	w, err := domain.ParseValue(req.Weight)
	if err != nil {
		return res.fail(err)
	}
	r, err := domain.ClassifyBMI(h, w)
	if err != nil {
		return res.fail(err)
	}
	res.Value = r.BMI
	res.Text = domain.FormatBMI(r)
	res.BMI = &r
	return res
}

// Currency converts req.Input between currency codes using the published rates.
// Before rates are published it returns KindNotLoaded with the loading placeholder.
func (s *Service) Currency(req ConversionRequest) Result {
	res := s.currency(req)
	s.record(res)
	return res
}

func (s *Service) currency(req ConversionRequest) Result {
	res := Result{Category: domain.CategoryCurrency}
	v, err := domain.ParseValue(req.Input)
	if err != nil {
		return res.fail(err)
	}
	from, err := domain.ParseCurrencyCode(req.From)
	if err != nil {
		return res.fail(err)
	}
	to, err := domain.ParseCurrencyCode(req.To)
	if err != nil {
		return res.fail(err)
	}

	var rates domain.RateTable
	if s.rates != nil {
		rates = s.rates.Rates()
	}
	out, err := domain.ConvertCurrency(v, from, to, rates)
	if err != nil {
		return res.fail(err)
	}

	for _, code := range out.MissingRates {
		s.logger.Warn("currency missing from rate table, converting at parity with USD", "currency", code)
		s.metrics.ParityRates.WithLabelValues(string(code)).Inc()
		res.Warnings = append(res.Warnings, fmt.Sprintf("no rate for %s; converted at parity with %s", code, domain.BaseCurrency))
	}
	res.Value = out.Value
	res.Text = domain.FormatCurrency(out.Value, to)
	return res
}

// Convert dispatches a two-unit conversion by category. BMI requests must use Service.BMI.
func (s *Service) Convert(category domain.UnitCategory, req ConversionRequest) (Result, error) {
	switch category {
	case domain.CategoryLength:
		return s.Length(req), nil
	case domain.CategoryTemperature:
		return s.Temperature(req), nil
	case domain.CategoryCurrency:
		return s.Currency(req), nil
	default:
		return Result{}, fmt.Errorf("category %q has no two-unit conversion", category)
	}
}

func (s *Service) record(res Result) {
	outcome := string(res.Err)
	if res.OK() {
		outcome = "ok"
	}
	s.metrics.Conversions.WithLabelValues(string(res.Category), outcome).Inc()
}

// fail maps a domain error to its kind and placeholder text.
func (r Result) fail(err error) Result {
	r.Value = 0
	switch {
	case errors.Is(err, domain.ErrNotLoaded):
		r.Err, r.Text = KindNotLoaded, domain.LoadingText
	case errors.Is(err, domain.ErrUnknownUnit):
		r.Err, r.Text = KindUnknownUnit, domain.UnknownUnitText
	case errors.Is(err, domain.ErrDomainPrecondition):
		r.Err, r.Text = KindDomainPrecondition, domain.NonPositiveText
	default:
		r.Err, r.Text = KindInvalidInput, domain.InvalidInputText
	}
	return r
}
