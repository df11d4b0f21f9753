package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCaseRow(t *testing.T) {
	t.Run("complete row", func(t *testing.T) {
		raw := RawCaseRow{
			NotificationDate: "2024-03-15",
			OnsetDate:        "2024-03-12",
			Age:              "42",
			Sex:              "F",
			Race:             "Parda",
			Hospitalization:  "SIM",
			Phenomenon:       "El Niño",
			Intensity:        "Forte",
		}

		rec, err := ParseCaseRow(raw)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), rec.NotifiedAt)
		assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), rec.OnsetAt)
		assert.Equal(t, 2024, rec.Year)
		assert.Equal(t, 42, rec.Age)
		assert.Equal(t, "F", rec.Sex)
		assert.Equal(t, "Parda", rec.Race)
		assert.Equal(t, HospitalizationYes, rec.Hospitalization)
		assert.Equal(t, "El Niño", rec.Phenomenon)
		assert.Equal(t, "Forte", rec.Intensity)
		assert.True(t, rec.Hospitalized())
	})

	t.Run("brazilian date format", func(t *testing.T) {
		raw := RawCaseRow{NotificationDate: "15/03/2010", Age: "7"}

		rec, err := ParseCaseRow(raw)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2010, 3, 15, 0, 0, 0, 0, time.UTC), rec.NotifiedAt)
		assert.Equal(t, 2010, rec.Year)
	})

	t.Run("missing onset date is allowed", func(t *testing.T) {
		raw := RawCaseRow{NotificationDate: "2015-01-02", Age: "30"}

		rec, err := ParseCaseRow(raw)

		require.NoError(t, err)
		assert.True(t, rec.OnsetAt.IsZero())
	})

	t.Run("empty categories become IGNORADO", func(t *testing.T) {
		raw := RawCaseRow{NotificationDate: "2015-01-02", Age: "30"}

		rec, err := ParseCaseRow(raw)

		require.NoError(t, err)
		assert.Equal(t, CategoryUnknown, rec.Sex)
		assert.Equal(t, CategoryUnknown, rec.Race)
		assert.Equal(t, CategoryUnknown, rec.Phenomenon)
		assert.Equal(t, HospitalizationUnknown, rec.Hospitalization)
		assert.False(t, rec.Hospitalized())
	})

	t.Run("bad notification date", func(t *testing.T) {
		raw := RawCaseRow{NotificationDate: "soon", Age: "30"}

		_, err := ParseCaseRow(raw)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DT_NOTIFIC")
	})

	t.Run("bad onset date", func(t *testing.T) {
		raw := RawCaseRow{NotificationDate: "2015-01-02", OnsetDate: "later", Age: "30"}

		_, err := ParseCaseRow(raw)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DT_SIN_PRI")
	})

	t.Run("bad age", func(t *testing.T) {
		raw := RawCaseRow{NotificationDate: "2015-01-02", Age: "quarenta"}

		_, err := ParseCaseRow(raw)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "IDADE")
	})
}

func TestNormalizeHospitalization(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sim", "SIM", HospitalizationYes},
		{"lowercase sim", "sim", HospitalizationYes},
		{"nao with tilde", "NÃO", HospitalizationNo},
		{"nao without tilde", "NAO", HospitalizationNo},
		{"lowercase nao", "nao", HospitalizationNo},
		{"ignorado", "IGNORADO", HospitalizationUnknown},
		{"empty", "", HospitalizationUnknown},
		{"garbage", "2", HospitalizationUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeHospitalization(tt.input))
		})
	}
}
