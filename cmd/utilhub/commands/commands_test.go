package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/utility-hub/internal/domain"
	"github.com/couchcryptid/utility-hub/internal/engine"
	"github.com/couchcryptid/utility-hub/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offlineEnv points the CLI at no API key so every rate lookup resolves to the
// offline table without touching the network.
func offlineEnv(t *testing.T) {
	t.Helper()
	t.Setenv("EXCHANGE_RATE_API_KEY", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("RATES_PUBLISH_ENABLED", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("LOG_LEVEL", "error")

	orig := newMetrics
	newMetrics = observability.NewMetricsForTesting
	t.Cleanup(func() { newMetrics = orig })
}

func runCLI(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestLengthCommand(t *testing.T) {
	offlineEnv(t)

	out, _, err := runCLI(t, "", "length", "1", "m", "km")
	require.NoError(t, err)
	assert.Equal(t, "0.0010 Kilometers\n", out)
}

func TestLengthCommandInvalidInput(t *testing.T) {
	offlineEnv(t)

	out, _, err := runCLI(t, "", "length", "abc", "m", "km")
	require.Error(t, err)
	assert.Equal(t, "length: Invalid Input", err.Error())
	assert.Empty(t, out)
}

func TestTemperatureCommand(t *testing.T) {
	offlineEnv(t)

	out, _, err := runCLI(t, "", "temp", "100", "C", "F")
	require.NoError(t, err)
	assert.Equal(t, "212.00 Fahrenheit\n", out)
}

func TestBMICommand(t *testing.T) {
	offlineEnv(t)

	out, _, err := runCLI(t, "", "bmi", "1.75", "70", "--details")
	require.NoError(t, err)
	assert.Contains(t, out, "BMI: 22.9 (Normal Weight)")
	assert.Contains(t, out, "color: #2CC985")

	_, _, err = runCLI(t, "", "bmi", "0", "70")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.NonPositiveText)
}

func TestConversionCommandsAcceptNegativeValues(t *testing.T) {
	offlineEnv(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"temp", "-40", "C", "F"}, "-40.00 Fahrenheit\n"},
		{[]string{"temperature", "-273.15", "C", "K"}, "0.00 Kelvin\n"},
		{[]string{"length", "-5", "m", "km"}, "-0.0050 Kilometers\n"},
		{[]string{"currency", "-10", "USD", "EUR"}, "-9.20 EUR\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, _, err := runCLI(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestBMICommandNegativeValue(t *testing.T) {
	offlineEnv(t)

	_, _, err := runCLI(t, "", "bmi", "-1", "70")
	require.Error(t, err)
	assert.Equal(t, "bmi: "+domain.NonPositiveText, err.Error())

	out, _, err := runCLI(t, "", "bmi", "--details", "--", "1.75", "70")
	require.NoError(t, err)
	assert.Contains(t, out, "BMI: 22.9 (Normal Weight)")
	assert.Contains(t, out, "progress:")

	_, _, err = runCLI(t, "", "bmi", "1.75")
	require.Error(t, err)
}

func TestRootHelpListsCategories(t *testing.T) {
	offlineEnv(t)

	out, _, err := runCLI(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Categories: length, temperature, bmi, currency")
}

func TestCurrencyCommandUsesOfflineRates(t *testing.T) {
	offlineEnv(t)

	out, errOut, err := runCLI(t, "", "currency", "1", "usd", "inr")
	require.NoError(t, err)
	assert.Equal(t, "83.10 INR\n", out)
	assert.Contains(t, errOut, "Using Offline Rates")
}

func TestRatesCommandJSON(t *testing.T) {
	offlineEnv(t)

	out, _, err := runCLI(t, "", "rates", "--json")
	require.NoError(t, err)

	var snap domain.RateSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, domain.FallbackRates(), snap.Rates)
	assert.Equal(t, domain.RateSourceOffline, snap.Source)
}

func TestRatesCommandTable(t *testing.T) {
	offlineEnv(t)

	out, _, err := runCLI(t, "", "rates")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1+len(domain.SupportedCurrencies))
	assert.Equal(t, "Using Offline Rates", lines[0])
	assert.Contains(t, lines[1], "USD")
	assert.Contains(t, lines[1], "1.0000")
}

func TestSessionCommandReadsUntilQuit(t *testing.T) {
	offlineEnv(t)

	out, _, err := runCLI(t, "length 3 ft in\nstatus\nquit\nlength 1 m km\n", "session")
	require.NoError(t, err)
	assert.Contains(t, out, "36.0000 Inches")
	assert.NotContains(t, out, "0.0010 Kilometers")
}

// --- session ---

type gatedFetcher struct {
	release chan struct{}
	rates   domain.RateTable
}

func (g *gatedFetcher) FetchRates(ctx context.Context, _ domain.CurrencyCode) (domain.RateTable, error) {
	select {
	case <-g.release:
		return g.rates, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func newTestSession(t *testing.T, f domain.RateFetcher) (*session, *engine.RateProvider, *bytes.Buffer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 9, 30, 0, 0, time.Local))

	provider := engine.NewRateProvider(f, nil, 5*time.Second, clock, logger, metrics)
	var out bytes.Buffer
	s := newSession(engine.NewService(provider, logger, metrics), provider, &out)
	return s, provider, &out
}

func TestSessionRecomputesCurrencyAfterPublish(t *testing.T) {
	f := &gatedFetcher{release: make(chan struct{}), rates: domain.RateTable{"USD": 1, "EUR": 0.9}}
	s, provider, out := newTestSession(t, f)

	provider.Start(context.Background())
	s.watchRates()

	assert.False(t, s.handle("currency 10 USD EUR"))
	assert.Contains(t, out.String(), "Loading...")

	close(f.release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := provider.Wait(ctx)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "[rates] Updated: 09:30")
	assert.Contains(t, out.String(), "9.00 EUR")
}

func TestSessionKeepsLastBMIOnError(t *testing.T) {
	s, _, out := newTestSession(t, nil)

	s.handle("bmi 1.75 70")
	out.Reset()

	s.handle("bmi 1.75 abc")
	assert.Equal(t, "Invalid Input\nlast: BMI: 22.9 (Normal Weight)\n", out.String())
}

func TestSessionHandle(t *testing.T) {
	s, _, out := newTestSession(t, nil)

	tests := []struct {
		line string
		want string
		quit bool
	}{
		{"", "", false},
		{"temp 0 C K", "273.15 Kelvin\n", false},
		{"temp -40 C F", "-40.00 Fahrenheit\n", false},
		{"LENGTH 1 km m", "1000.0000 Meters\n", false},
		{"cur 1 USD EUR", "Loading...\n", false},
		{"length 1", "usage: length <value> <from> <to>\n", false},
		{"bmi 1.8", "usage: bmi <height-m> <weight-kg>\n", false},
		{"status", "Fetching rates...\n", false},
		{"fly 1 2 3", "unknown command \"fly\", type help\n", false},
		{"EXIT", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out.Reset()
			assert.Equal(t, tt.quit, s.handle(tt.line))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestSessionRunStopsOnContextCancel(t *testing.T) {
	s, _, _ := newTestSession(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer pw.Close()
	require.NoError(t, s.run(ctx, pr))
}
