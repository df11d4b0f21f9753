package dataset

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/denguelab/dengue-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = "DT_NOTIFIC,DT_SIN_PRI,IDADE,CS_SEXO,CS_RACA,HOSPITALIZ,FENOMENO,INTENSIDADE\n"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cases.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeCSV(t, testHeader+
			"2024-03-15,2024-03-12,42,F,Parda,SIM,El Niño,Forte\n"+
			"2023-11-02,2023-10-30,8,M,Branca,NÃO,La Niña,Fraca\n")

		ds, err := Load(path, discardLogger())

		require.NoError(t, err)
		require.Equal(t, 2, ds.Size())
		assert.Equal(t, 0, ds.SkippedRows)
		assert.Equal(t, path, ds.Path)
		assert.False(t, ds.LoadedAt.IsZero())

		first := ds.Records[0]
		assert.Equal(t, 2024, first.Year)
		assert.Equal(t, 42, first.Age)
		assert.Equal(t, domain.HospitalizationYes, first.Hospitalization)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), discardLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open case dataset")
	})

	t.Run("missing required column", func(t *testing.T) {
		path := writeCSV(t, "DT_NOTIFIC,IDADE\n2024-03-15,42\n")

		_, err := Load(path, discardLogger())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DT_SIN_PRI")
	})

	t.Run("extra columns are ignored", func(t *testing.T) {
		path := writeCSV(t, "ID_MUNICIP,"+testHeader[:len(testHeader)-1]+",EVOLUCAO\n"+
			"354980,2024-03-15,2024-03-12,42,F,Parda,SIM,El Niño,Forte,CURA\n")

		ds, err := Load(path, discardLogger())

		require.NoError(t, err)
		assert.Equal(t, 1, ds.Size())
	})

	t.Run("malformed rows are skipped not fatal", func(t *testing.T) {
		path := writeCSV(t, testHeader+
			"2024-03-15,2024-03-12,42,F,Parda,SIM,El Niño,Forte\n"+
			"not-a-date,2024-03-12,42,F,Parda,SIM,El Niño,Forte\n"+
			"2024-03-16,,quarenta,M,Branca,NÃO,Neutro,Fraca\n"+
			"2024-03-17,,18,M,Branca,NÃO,Neutro,Fraca\n")

		ds, err := Load(path, discardLogger())

		require.NoError(t, err)
		assert.Equal(t, 2, ds.Size())
		assert.Equal(t, 2, ds.SkippedRows)
	})

	t.Run("short rows do not panic", func(t *testing.T) {
		path := writeCSV(t, testHeader+"2024-03-15,2024-03-12,42\n")

		ds, err := Load(path, discardLogger())

		require.NoError(t, err)
		// Missing trailing fields read as empty: age parses, categories
		// normalize to IGNORADO.
		assert.Equal(t, 1, ds.Size())
		assert.Equal(t, domain.CategoryUnknown, ds.Records[0].Race)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeCSV(t, "")

		_, err := Load(path, discardLogger())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "read dataset header")
	})

	t.Run("nil dataset size", func(t *testing.T) {
		var ds *Dataset
		assert.Equal(t, 0, ds.Size())
	})
}
