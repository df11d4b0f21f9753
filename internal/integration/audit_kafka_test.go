//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkaadapter "github.com/denguelab/dengue-dashboard/internal/adapter/kafka"
	"github.com/denguelab/dengue-dashboard/internal/config"
	"github.com/denguelab/dengue-dashboard/internal/domain"
	"github.com/denguelab/dengue-dashboard/internal/model"
	"github.com/denguelab/dengue-dashboard/internal/observability"
	"github.com/denguelab/dengue-dashboard/internal/predict"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testAuditTopic = "test-prediction-audit"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka broker in a container and returns
// its bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
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

	controllerConn, err := kafkago.Dial("tcp",
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func scoringModel(t *testing.T) *model.LogisticModel {
	t.Helper()
	features := []string{
		"DIAS_SINTOMA_NOTIFIC_TEMP", "TRIMESTRE", "MES", "DIAS_SINTOMA_NOTIFIC",
		"TEM_COMORBIDADE", "NU_ANO", "QTD_IGNORADOS", "SEVERITY_SCORE",
		"IDADE", "ANO", "HEPATOPAT_BIN", "COMORBIDADE_SCORE",
		"DIABETES_BIN", "RENAL_BIN",
	}
	coefficients := make([]float64, len(features))
	coefficients[7] = 0.3 // weight on the severity score
	m, err := model.FromArtifact(model.Artifact{
		ModelType:    "LogisticRegression",
		Version:      "it-v1",
		Features:     features,
		Coefficients: coefficients,
		Intercept:    -1.5,
	})
	require.NoError(t, err)
	return m
}

// TestPredictionAuditRoundTrip scores a prediction with audit publishing
// enabled and verifies the audit event lands on the Kafka topic with the
// expected key, headers, and payload.
func TestPredictionAuditRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAuditTopic)

	cfg := &config.Config{
		AuditBrokers: []string{broker},
		AuditTopic:   testAuditTopic,
		AuditEnabled: true,
	}

	writer := kafkaadapter.NewAuditWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	svc := predict.New(scoringModel(t), writer, discardLogger(), observability.NewMetricsForTesting())

	in := domain.SymptomInput{Fever: "SIM", Vomiting: "SIM", Headache: "SIM"}
	result, err := svc.Predict(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Severity)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAuditTopic,
		GroupID:     fmt.Sprintf("test-audit-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from audit topic")

	assert.Equal(t, []byte("it-v1"), msg.Key)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "it-v1", headers["model_version"])
	_, err = time.Parse(time.RFC3339, headers["generated_at"])
	assert.NoError(t, err, "generated_at should be valid RFC3339")

	var audit domain.PredictionAudit
	require.NoError(t, json.Unmarshal(msg.Value, &audit))
	assert.Equal(t, 5, audit.Severity)
	assert.Equal(t, result.Probability, audit.Probability)
	assert.Equal(t, "it-v1", audit.ModelVersion)
	assert.Equal(t, "SIM", audit.Symptoms.Fever)
	assert.False(t, audit.GeneratedAt.IsZero())
}
