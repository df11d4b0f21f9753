// Package kafka publishes prediction audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/denguelab/dengue-dashboard/internal/config"
	"github.com/denguelab/dengue-dashboard/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// AuditWriter produces prediction audit messages to the audit topic.
// It implements predict.Auditor.
type AuditWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAuditWriter creates a Kafka producer for the configured audit topic.
func NewAuditWriter(cfg *config.Config, logger *slog.Logger) *AuditWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.AuditBrokers...),
		Topic:        cfg.AuditTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &AuditWriter{writer: w, logger: logger}
}

// PublishPrediction serializes and publishes a single audit event.
func (w *AuditWriter) PublishPrediction(ctx context.Context, audit domain.PredictionAudit) error {
	msg, err := serializeAudit(audit)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *AuditWriter) Close() error {
	return w.writer.Close()
}

// serializeAudit marshals a PredictionAudit into a Kafka message keyed by
// model version, so audits for one model land on the same partition.
func serializeAudit(audit domain.PredictionAudit) (kafkago.Message, error) {
	data, err := json.Marshal(audit)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize prediction audit: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(audit.ModelVersion),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "model_version", Value: []byte(audit.ModelVersion)},
			{Key: "generated_at", Value: []byte(audit.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
