package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/utility-hub/internal/adapter/exchangerate"
	"github.com/couchcryptid/utility-hub/internal/adapter/kafka"
	"github.com/couchcryptid/utility-hub/internal/config"
	"github.com/couchcryptid/utility-hub/internal/domain"
	"github.com/couchcryptid/utility-hub/internal/engine"
	"github.com/couchcryptid/utility-hub/internal/observability"
	"github.com/spf13/cobra"
)

// newMetrics is swapped in tests so repeated command runs do not
// re-register collectors with the default registry.
var newMetrics = observability.NewMetrics

// app is the wiring shared by every subcommand, built once per invocation.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "utilhub",
		Short:        "Length, temperature, BMI, and currency conversions",
		Long:         "Length, temperature, BMI, and currency conversions.\n\nCategories: " + joinNames(domain.Categories),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.logger = observability.NewLogger(cfg)
			a.metrics = newMetrics()
			return nil
		},
	}

	root.AddCommand(
		lengthCmd(a),
		temperatureCmd(a),
		bmiCmd(a),
		currencyCmd(a),
		ratesCmd(a),
		sessionCmd(a),
	)
	root.SetErrPrefix("utilhub:")
	return root
}

// service builds a conversion facade over rates, which may be nil for the
// categories that never read currency rates.
func (a *app) service(rates engine.RateReader) *engine.Service {
	return engine.NewService(rates, a.logger, a.metrics)
}

// rateProvider wires the exchange-rate client and, when enabled, the Kafka
// snapshot sink. The returned close func releases the sink.
func (a *app) rateProvider() (*engine.RateProvider, func()) {
	if !a.cfg.HasAPIKey() {
		a.logger.Info("no exchange-rate API key configured, currency conversion will use offline rates")
	}
	client := exchangerate.NewClient(a.cfg.ExchangeRateAPIKey, a.cfg.ExchangeRateBaseURL, a.cfg.ExchangeRateTimeout, a.metrics, a.logger)

	var publisher engine.SnapshotPublisher
	closeFn := func() {}
	if a.cfg.RatesPublishEnabled {
		writer := kafka.NewRateWriter(a.cfg, a.logger)
		publisher = writer
		closeFn = func() {
			if err := writer.Close(); err != nil {
				a.logger.Error("kafka writer close error", "error", err)
			}
		}
		a.logger.Info("rate snapshot publishing enabled", "topic", a.cfg.KafkaRatesTopic, "brokers", a.cfg.KafkaBrokers)
	}

	provider := engine.NewRateProvider(client, publisher, a.cfg.ExchangeRateTimeout, nil, a.logger, a.metrics)
	return provider, closeFn
}
