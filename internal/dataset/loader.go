// Package dataset loads the treated dengue case CSV into memory. The load
// happens once at process start; the resulting Dataset is read-only for the
// process lifetime and there is no hot reload.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/denguelab/dengue-dashboard/internal/domain"
)

// ErrUnavailable is returned by consumers when statistics are requested but
// no dataset was loaded at startup.
var ErrUnavailable = errors.New("case dataset not loaded")

// Required CSV columns. Extra columns are ignored.
var requiredColumns = []string{
	"DT_NOTIFIC", "DT_SIN_PRI", "IDADE", "CS_SEXO", "CS_RACA",
	"HOSPITALIZ", "FENOMENO", "INTENSIDADE",
}

// Dataset is the immutable in-memory case table plus load metadata.
type Dataset struct {
	Records     []domain.CaseRecord
	Path        string
	LoadedAt    time.Time
	SkippedRows int
}

// Load reads the case CSV at path. A missing file or bad header is an error
// and the caller runs degraded; individual malformed rows are skipped and
// counted so one dirty row cannot take the whole dataset down.
func Load(path string, logger *slog.Logger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open case dataset: %w", err)
	}
	defer f.Close()

	ds, err := read(f, logger)
	if err != nil {
		return nil, err
	}
	ds.Path = path
	return ds, nil
}

func read(r io.Reader, logger *slog.Logger) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := colIdx[name]; !ok {
			return nil, fmt.Errorf("dataset missing required column %q", name)
		}
	}

	ds := &Dataset{LoadedAt: time.Now()}
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			ds.SkippedRows++
			logger.Warn("skipping unreadable dataset row", "line", line, "error", err)
			continue
		}

		field := func(name string) string {
			i := colIdx[name]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}

		rec, err := domain.ParseCaseRow(domain.RawCaseRow{
			NotificationDate: field("DT_NOTIFIC"),
			OnsetDate:        field("DT_SIN_PRI"),
			Age:              field("IDADE"),
			Sex:              field("CS_SEXO"),
			Race:             field("CS_RACA"),
			Hospitalization:  field("HOSPITALIZ"),
			Phenomenon:       field("FENOMENO"),
			Intensity:        field("INTENSIDADE"),
		})
		if err != nil {
			ds.SkippedRows++
			logger.Warn("skipping malformed dataset row", "line", line, "error", err)
			continue
		}
		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

// Size returns the number of loaded records.
func (d *Dataset) Size() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
