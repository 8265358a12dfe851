package domain

import "errors"

var (
	// ErrInvalidInput reports text that is not a finite decimal number.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownUnit reports a unit or currency code outside the category vocabulary.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrNotLoaded reports a currency conversion requested before rates were published.
	ErrNotLoaded = errors.New("currency rates not loaded")

	// ErrDomainPrecondition reports numeric input outside an operation's domain,
	// such as a non-positive height for BMI.
	ErrDomainPrecondition = errors.New("domain precondition violated")

	// ErrMissingAPIKey reports that no usable rate service key is configured.
	// Fetchers return it without touching the network.
	ErrMissingAPIKey = errors.New("exchange-rate API key not configured")

	// ErrRemoteFetchFailed wraps every failure to obtain live currency rates.
	// It never reaches the presentation layer; the provider falls back instead.
	ErrRemoteFetchFailed = errors.New("remote rate fetch failed")
)
