package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArtifact() Artifact {
	return Artifact{
		ModelType:     "LogisticRegression",
		Version:       "reglog-otimizado-v2",
		TrainedAt:     "2025-11-15T13:39:45Z",
		PositiveClass: "SIM",
		Features:      []string{"SEVERITY_SCORE", "IDADE"},
		Coefficients:  []float64{0.5, -0.1},
		Intercept:     0.2,
	}
}

func TestFromArtifact(t *testing.T) {
	t.Run("valid artifact", func(t *testing.T) {
		m, err := FromArtifact(testArtifact())
		require.NoError(t, err)
		assert.Equal(t, []string{"SEVERITY_SCORE", "IDADE"}, m.Features())
		assert.Equal(t, "reglog-otimizado-v2", m.Version())
	})

	t.Run("no features", func(t *testing.T) {
		_, err := FromArtifact(Artifact{Coefficients: []float64{1}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no features")
	})

	t.Run("coefficient width mismatch", func(t *testing.T) {
		a := testArtifact()
		a.Coefficients = []float64{0.5}
		_, err := FromArtifact(a)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 coefficients for 2 features")
	})

	t.Run("scaler width mismatch", func(t *testing.T) {
		a := testArtifact()
		a.Scaler = &Scaler{Mean: []float64{0}, Scale: []float64{1}}
		_, err := FromArtifact(a)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scaler width")
	})

	t.Run("zero scale", func(t *testing.T) {
		a := testArtifact()
		a.Scaler = &Scaler{Mean: []float64{0, 0}, Scale: []float64{1, 0}}
		_, err := FromArtifact(a)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "IDADE")
	})

	t.Run("version falls back to model type", func(t *testing.T) {
		a := testArtifact()
		a.Version = ""
		m, err := FromArtifact(a)
		require.NoError(t, err)
		assert.Equal(t, "LogisticRegression", m.Version())
	})
}

func TestLoad(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.json")
		data := `{
			"model_type": "LogisticRegression",
			"positive_class": "SIM",
			"features": ["SEVERITY_SCORE"],
			"coefficients": [0.4],
			"intercept": -1.5
		}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		m, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, []string{"SEVERITY_SCORE"}, m.Features())
		assert.False(t, m.Info().Scaled)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read model artifact")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.json")
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode model artifact")
	})
}

func TestPredictProba(t *testing.T) {
	t.Run("zero weights give even odds", func(t *testing.T) {
		a := testArtifact()
		a.Coefficients = []float64{0, 0}
		a.Intercept = 0
		m, err := FromArtifact(a)
		require.NoError(t, err)

		p, err := m.PredictProba([]float64{7, 35})

		require.NoError(t, err)
		assert.Equal(t, 0.5, p)
	})

	t.Run("linear term", func(t *testing.T) {
		m, err := FromArtifact(testArtifact())
		require.NoError(t, err)

		// z = 0.2 + 0.5*4 - 0.1*20 = 0.2
		p, err := m.PredictProba([]float64{4, 20})

		require.NoError(t, err)
		assert.InDelta(t, 1/(1+math.Exp(-0.2)), p, 1e-12)
	})

	t.Run("scaled features", func(t *testing.T) {
		a := testArtifact()
		a.Scaler = &Scaler{Mean: []float64{2, 30}, Scale: []float64{2, 10}}
		m, err := FromArtifact(a)
		require.NoError(t, err)

		// scaled: (4-2)/2 = 1, (20-30)/10 = -1; z = 0.2 + 0.5 + 0.1 = 0.8
		p, err := m.PredictProba([]float64{4, 20})

		require.NoError(t, err)
		assert.InDelta(t, 1/(1+math.Exp(-0.8)), p, 1e-12)
	})

	t.Run("probability bounded", func(t *testing.T) {
		a := testArtifact()
		a.Intercept = 50
		m, err := FromArtifact(a)
		require.NoError(t, err)

		p, err := m.PredictProba([]float64{100, 0})

		require.NoError(t, err)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	})

	t.Run("width mismatch", func(t *testing.T) {
		m, err := FromArtifact(testArtifact())
		require.NoError(t, err)

		_, err = m.PredictProba([]float64{1})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "model expects 2")
	})
}
