package config

import (
	"errors"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// PlaceholderAPIKey is the unset value shipped in sample configuration.
// It is treated the same as an empty key.
const PlaceholderAPIKey = "YOUR_API_KEY_HERE"

// Config holds all settings, populated from environment variables.
type Config struct {
	LogLevel        string
	LogFormat       string
	HTTPAddr        string // empty disables the ops listener
	ShutdownTimeout time.Duration

	// Exchange-rate service configuration.
	ExchangeRateAPIKey  string
	ExchangeRateBaseURL string
	ExchangeRateTimeout time.Duration

	// Rate snapshot publishing configuration.
	KafkaBrokers        []string
	KafkaRatesTopic     string
	RatesPublishEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	timeoutStr := sharedcfg.EnvOrDefault("EXCHANGE_RATE_TIMEOUT", "5s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		return nil, errors.New("invalid EXCHANGE_RATE_TIMEOUT")
	}

	var brokers []string
	if s := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); s != "" {
		brokers = sharedcfg.ParseBrokers(s)
	}
	publishEnabled := len(brokers) > 0
	if v := os.Getenv("RATES_PUBLISH_ENABLED"); v != "" {
		publishEnabled = v == "true"
	}

	cfg := &Config{
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		ExchangeRateAPIKey:  os.Getenv("EXCHANGE_RATE_API_KEY"),
		ExchangeRateBaseURL: strings.TrimRight(sharedcfg.EnvOrDefault("EXCHANGE_RATE_BASE_URL", "https://v6.exchangerate-api.com/v6"), "/"),
		ExchangeRateTimeout: timeout,

		KafkaBrokers:        brokers,
		KafkaRatesTopic:     sharedcfg.EnvOrDefault("KAFKA_RATES_TOPIC", "currency-rates"),
		RatesPublishEnabled: publishEnabled,
	}

	if cfg.ExchangeRateBaseURL == "" {
		return nil, errors.New("EXCHANGE_RATE_BASE_URL must not be empty")
	}
	if cfg.RatesPublishEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("RATES_PUBLISH_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.RatesPublishEnabled && cfg.KafkaRatesTopic == "" {
		return nil, errors.New("KAFKA_RATES_TOPIC is required when publishing rates")
	}

	return cfg, nil
}

// HasAPIKey reports whether a usable exchange-rate API key is configured.
func (c *Config) HasAPIKey() bool {
	return c.ExchangeRateAPIKey != "" && c.ExchangeRateAPIKey != PlaceholderAPIKey
}
