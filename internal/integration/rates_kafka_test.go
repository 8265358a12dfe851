//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/utility-hub/internal/adapter/kafka"
	"github.com/couchcryptid/utility-hub/internal/config"
	"github.com/couchcryptid/utility-hub/internal/domain"
	"github.com/couchcryptid/utility-hub/internal/engine"
	"github.com/couchcryptid/utility-hub/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testRatesTopic = "test-currency-rates"

type failingFetcher struct{}

func (failingFetcher) FetchRates(context.Context, domain.CurrencyCode) (domain.RateTable, error) {
	return nil, errors.New("network unreachable")
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("utility-hub-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestOfflineSnapshotPublished runs the provider against a failing fetcher and
// checks that the fallback snapshot lands on the rates topic.
func TestOfflineSnapshotPublished(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testRatesTopic)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		KafkaBrokers:    []string{broker},
		KafkaRatesTopic: testRatesTopic,
	}
	writer := kafka.NewRateWriter(cfg, logger)
	defer writer.Close()

	metrics := observability.NewMetricsForTesting()
	provider := engine.NewRateProvider(failingFetcher{}, writer, time.Second, nil, logger, metrics)
	provider.Start(ctx)

	snap, err := provider.Wait(ctx)
	require.NoError(t, err)
	require.True(t, snap.Offline())

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testRatesTopic,
		GroupID:     fmt.Sprintf("test-rates-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	defer consumer.Close()

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from rates topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, snap.ID, string(msg.Key))
	assert.Equal(t, "offline", headers["rate_source"])
	assert.Equal(t, "USD", headers["base_currency"])

	var got domain.RateSnapshot
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, domain.FallbackRates(), got.Rates)
	assert.Equal(t, domain.StatusOffline, got.Status)
}
