package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/utility-hub/internal/config"
	"github.com/couchcryptid/utility-hub/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer the RateWriter needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// RateWriter publishes resolved rate snapshots to a Kafka topic.
// It implements engine.SnapshotPublisher.
type RateWriter struct {
	writer messageWriter
	logger *slog.Logger
}

// NewRateWriter creates a Kafka producer for the configured rates topic.
func NewRateWriter(cfg *config.Config, logger *slog.Logger) *RateWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaRatesTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &RateWriter{writer: w, logger: logger}
}

// PublishSnapshot serializes the snapshot and writes it as a single message keyed by snapshot ID.
func (w *RateWriter) PublishSnapshot(ctx context.Context, snap domain.RateSnapshot) error {
	msg, err := serializeToMessage(snap)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write rate snapshot: %w", err)
	}
	w.logger.Debug("rate snapshot published", "snapshot_id", snap.ID, "source", snap.Source)
	return nil
}

func (w *RateWriter) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RateSnapshot into a Kafka message.
func serializeToMessage(snap domain.RateSnapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize rate snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.ID),
		Value: data,
		Time:  snap.FetchedAt,
		Headers: []kafkago.Header{
			{Key: "rate_source", Value: []byte(snap.Source)},
			{Key: "base_currency", Value: []byte(snap.Base)},
			{Key: "fetched_at", Value: []byte(snap.FetchedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
