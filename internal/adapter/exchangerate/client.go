package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/utility-hub/internal/config"
	"github.com/couchcryptid/utility-hub/internal/domain"
	"github.com/couchcryptid/utility-hub/internal/observability"
)

// maxErrorBody caps how much of a non-200 body is echoed into the error.
const maxErrorBody = 512

// Client implements domain.RateFetcher using the ExchangeRate-API v6 "latest" endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an exchange-rate client.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchRates requests {baseURL}/{apiKey}/latest/{base} and returns the
// conversion_rates table. Any response other than a well-formed success is an error.
func (c *Client) FetchRates(ctx context.Context, base domain.CurrencyCode) (domain.RateTable, error) {
	if c.apiKey == "" || c.apiKey == config.PlaceholderAPIKey {
		return nil, domain.ErrMissingAPIKey
	}

	u := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, url.PathEscape(c.apiKey), url.PathEscape(string(base)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RateFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("latest rates request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("exchange-rate API error: status %d: %s", resp.StatusCode, body)
	}

	var latest response
	if err := json.NewDecoder(resp.Body).Decode(&latest); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if latest.Result != "success" {
		return nil, fmt.Errorf("exchange-rate API result %q: %s", latest.Result, latest.ErrorType)
	}

	rates := make(domain.RateTable, len(latest.ConversionRates))
	for code, rate := range latest.ConversionRates {
		rates[domain.CurrencyCode(code)] = rate
	}
	if err := rates.Validate(); err != nil {
		return nil, fmt.Errorf("malformed conversion_rates: %w", err)
	}

	c.logger.Debug("exchange rates fetched", "base", base, "currencies", len(rates), "last_update", latest.TimeLastUpdateUTC)
	return rates, nil
}

// ExchangeRate-API response types.

type response struct {
	Result            string             `json:"result"`
	ErrorType         string             `json:"error-type,omitempty"`
	BaseCode          string             `json:"base_code,omitempty"`
	TimeLastUpdateUTC string             `json:"time_last_update_utc,omitempty"`
	ConversionRates   map[string]float64 `json:"conversion_rates"`
}
