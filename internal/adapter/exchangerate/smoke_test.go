//go:build exchangerate

package exchangerate

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/utility-hub/internal/domain"
	"github.com/couchcryptid/utility-hub/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real ExchangeRate-API and require a valid EXCHANGE_RATE_API_KEY env var.
// Run with: go test -tags=exchangerate ./internal/adapter/exchangerate/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	key := os.Getenv("EXCHANGE_RATE_API_KEY")
	if key == "" {
		t.Fatal("EXCHANGE_RATE_API_KEY must be set to run smoke tests")
	}
	return &Client{
		apiKey:     key,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://v6.exchangerate-api.com/v6",
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_FetchRates(t *testing.T) {
	c := smokeClient(t)

	rates, err := c.FetchRates(context.Background(), domain.BaseCurrency)
	require.NoError(t, err)

	assert.Equal(t, 1.0, rates[domain.BaseCurrency])
	for _, code := range domain.SupportedCurrencies {
		assert.Contains(t, rates, code)
	}
	assert.InDelta(t, 1.0, rates["EUR"], 0.5, "EUR should be near parity with USD")
}

func TestSmoke_FetchRates_BadKey(t *testing.T) {
	c := smokeClient(t)
	c.apiKey = "definitely-not-a-key"

	_, err := c.FetchRates(context.Background(), domain.BaseCurrency)
	require.Error(t, err)
}
