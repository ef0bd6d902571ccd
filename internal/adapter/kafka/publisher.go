package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/njstats/internal/config"
	"github.com/couchcryptid/njstats/internal/domain"
)

// Publisher announces completed seeds on a Kafka topic.
// It implements pipeline.Notifier.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured seed topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSeedTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}
	return &Publisher{writer: w, logger: logger}
}

// NotifySeeded publishes report keyed by its state, so every report for one
// state lands on the same partition in order.
func (p *Publisher) NotifySeeded(ctx context.Context, report domain.SeedReport) error {
	msg, err := serializeReport(report)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish seed report: %w", err)
	}
	p.logger.Debug("seed report published", "topic", p.writer.Topic, "run_id", report.RunID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeReport marshals a SeedReport into a Kafka message.
func serializeReport(report domain.SeedReport) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize seed report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(report.State),
		Value: data,
		Time:  report.SeededAt,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(report.RunID)},
			{Key: "seeded_at", Value: []byte(report.SeededAt.Format(time.RFC3339))},
		},
	}, nil
}
