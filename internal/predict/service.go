// Package predict turns symptom answers into a hospitalization-risk
// probability using the loaded classifier artifact.
package predict

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/denguelab/dengue-dashboard/internal/domain"
	"github.com/denguelab/dengue-dashboard/internal/model"
	"github.com/denguelab/dengue-dashboard/internal/observability"
)

// auditTimeout bounds the fire-and-forget audit publish so a slow broker
// cannot pile up goroutines.
const auditTimeout = 5 * time.Second

// Auditor publishes scored predictions for offline model monitoring.
type Auditor interface {
	PublishPrediction(ctx context.Context, audit domain.PredictionAudit) error
}

// Result is one scored prediction.
type Result struct {
	// Probability of hospitalization as a percentage, rounded to 2 decimals.
	Probability  float64
	Severity     int
	ModelVersion string
}

// Service scores symptom inputs against the loaded model. Pass a nil model
// for degraded mode (scoring fails with model.ErrUnavailable) and a nil
// auditor to disable audit publishing.
type Service struct {
	model   *model.LogisticModel
	auditor Auditor
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a prediction service.
func New(m *model.LogisticModel, auditor Auditor, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		model:   m,
		auditor: auditor,
		logger:  logger,
		metrics: metrics,
	}
}

// Available reports whether an artifact is loaded.
func (s *Service) Available() bool {
	return s.model != nil
}

// ModelInfo returns the loaded artifact's metadata.
func (s *Service) ModelInfo() (model.Info, error) {
	if s.model == nil {
		return model.Info{}, model.ErrUnavailable
	}
	return s.model.Info(), nil
}

// Predict assembles the feature vector in the artifact's trained order,
// scores it, and returns the positive-class probability as a percentage.
// Exactly one model invocation happens per call.
func (s *Service) Predict(ctx context.Context, in domain.SymptomInput) (Result, error) {
	if s.model == nil {
		return Result{}, model.ErrUnavailable
	}

	start := time.Now()

	vector, err := in.FeatureVector(s.model.Features())
	if err != nil {
		s.metrics.PredictionsTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("assemble feature vector: %w", err)
	}

	proba, err := s.model.PredictProba(vector)
	if err != nil {
		s.metrics.PredictionsTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("score feature vector: %w", err)
	}

	result := Result{
		Probability:  math.Round(proba*100*100) / 100,
		Severity:     in.SeverityScore(),
		ModelVersion: s.model.Version(),
	}

	s.metrics.PredictionsTotal.WithLabelValues("scored").Inc()
	s.metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	s.publishAudit(in, result)

	return result, nil
}

// publishAudit emits the audit event asynchronously. Publish failures are
// logged and counted, never surfaced to the caller.
func (s *Service) publishAudit(in domain.SymptomInput, result Result) {
	if s.auditor == nil {
		return
	}

	audit := domain.NewPredictionAudit(in, result.Probability, result.ModelVersion)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()

		if err := s.auditor.PublishPrediction(ctx, audit); err != nil {
			s.logger.Warn("prediction audit publish failed", "error", err)
			s.metrics.AuditPublished.WithLabelValues("error").Inc()
			return
		}
		s.metrics.AuditPublished.WithLabelValues("ok").Inc()
	}()
}
