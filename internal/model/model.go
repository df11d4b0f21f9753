// Package model loads and evaluates the pre-trained hospitalization
// classifier. The artifact is a JSON export of a scikit-learn logistic
// regression: ordered feature names, coefficients, intercept, and an optional
// standard scaler. Training happens offline; this package only scores.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// ErrUnavailable is returned when scoring is requested but no artifact was
// loaded at startup.
var ErrUnavailable = errors.New("model not loaded")

// Scaler holds per-feature standardization parameters applied before the
// linear term, mirroring sklearn's StandardScaler.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Artifact is the on-disk representation of a trained classifier.
type Artifact struct {
	ModelType     string    `json:"model_type"`
	Version       string    `json:"version"`
	TrainedAt     string    `json:"trained_at"`
	PositiveClass string    `json:"positive_class"`
	Features      []string  `json:"features"`
	Coefficients  []float64 `json:"coefficients"`
	Intercept     float64   `json:"intercept"`
	Scaler        *Scaler   `json:"scaler,omitempty"`
}

// Info is the artifact metadata exposed on the model info route.
type Info struct {
	ModelType     string   `json:"model_type"`
	Version       string   `json:"version"`
	TrainedAt     string   `json:"trained_at"`
	PositiveClass string   `json:"positive_class"`
	Features      []string `json:"features"`
	Scaled        bool     `json:"scaled"`
}

// LogisticModel scores a fixed-width numeric vector against the loaded
// artifact. Immutable after construction.
type LogisticModel struct {
	artifact Artifact
}

// Load reads and validates an artifact file.
func Load(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	return FromArtifact(artifact)
}

// FromArtifact validates an in-memory artifact. The feature list fixes the
// vector width; coefficient and scaler lengths must match it.
func FromArtifact(artifact Artifact) (*LogisticModel, error) {
	if len(artifact.Features) == 0 {
		return nil, errors.New("model artifact declares no features")
	}
	if len(artifact.Coefficients) != len(artifact.Features) {
		return nil, fmt.Errorf("model artifact has %d coefficients for %d features",
			len(artifact.Coefficients), len(artifact.Features))
	}
	if s := artifact.Scaler; s != nil {
		if len(s.Mean) != len(artifact.Features) || len(s.Scale) != len(artifact.Features) {
			return nil, fmt.Errorf("model scaler width does not match %d features", len(artifact.Features))
		}
		for i, scale := range s.Scale {
			if scale == 0 {
				return nil, fmt.Errorf("model scaler has zero scale for feature %q", artifact.Features[i])
			}
		}
	}
	return &LogisticModel{artifact: artifact}, nil
}

// Features returns the trained feature order the caller must assemble
// vectors in.
func (m *LogisticModel) Features() []string {
	out := make([]string, len(m.artifact.Features))
	copy(out, m.artifact.Features)
	return out
}

// Version returns the artifact version string, or the model type when the
// export carries no explicit version.
func (m *LogisticModel) Version() string {
	if m.artifact.Version != "" {
		return m.artifact.Version
	}
	return m.artifact.ModelType
}

// Info returns the artifact metadata.
func (m *LogisticModel) Info() Info {
	return Info{
		ModelType:     m.artifact.ModelType,
		Version:       m.artifact.Version,
		TrainedAt:     m.artifact.TrainedAt,
		PositiveClass: m.artifact.PositiveClass,
		Features:      m.Features(),
		Scaled:        m.artifact.Scaler != nil,
	}
}

// PredictProba returns the probability of the positive (hospitalization)
// class for a vector in trained feature order.
func (m *LogisticModel) PredictProba(vector []float64) (float64, error) {
	if len(vector) != len(m.artifact.Features) {
		return 0, fmt.Errorf("feature vector has %d values, model expects %d",
			len(vector), len(m.artifact.Features))
	}

	z := m.artifact.Intercept
	for i, x := range vector {
		if s := m.artifact.Scaler; s != nil {
			x = (x - s.Mean[i]) / s.Scale[i]
		}
		z += m.artifact.Coefficients[i] * x
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
