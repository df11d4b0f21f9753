package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Hospitalization outcome values after normalization.
const (
	HospitalizationYes     = "SIM"
	HospitalizationNo      = "NÃO"
	HospitalizationUnknown = "IGNORADO"
)

// CategoryUnknown replaces empty category values so missing data keeps its
// own bucket in distributions.
const CategoryUnknown = "IGNORADO"

// RawCaseRow holds the untyped column values of one CSV row, keyed the way
// the SINAN extract names them.
type RawCaseRow struct {
	NotificationDate string // DT_NOTIFIC
	OnsetDate        string // DT_SIN_PRI
	Age              string // IDADE
	Sex              string // CS_SEXO
	Race             string // CS_RACA
	Hospitalization  string // HOSPITALIZ (SIM / NÃO / IGNORADO)
	Phenomenon       string // FENOMENO (climatic phenomenon category)
	Intensity        string // INTENSIDADE (phenomenon intensity)
}

// CaseRecord is one typed dengue case notification. Records are immutable
// once loaded; every derivation works on copies.
type CaseRecord struct {
	NotifiedAt      time.Time
	OnsetAt         time.Time
	Year            int // derived from NotifiedAt
	Age             int
	Sex             string
	Race            string
	Hospitalization string
	Phenomenon      string
	Intensity       string
}

// Hospitalized reports whether the case resulted in hospitalization.
// IGNORADO is not hospitalized for counting purposes.
func (r CaseRecord) Hospitalized() bool {
	return r.Hospitalization == HospitalizationYes
}

// ParseCaseRow converts a raw CSV row into a CaseRecord. The notification
// date and age are required; rows failing those parse with an error and are
// expected to be skipped by the loader. The onset date is optional because
// older extracts leave it blank.
func ParseCaseRow(raw RawCaseRow) (CaseRecord, error) {
	notified, err := parseDate(raw.NotificationDate)
	if err != nil {
		return CaseRecord{}, fmt.Errorf("parse DT_NOTIFIC %q: %w", raw.NotificationDate, err)
	}

	var onset time.Time
	if strings.TrimSpace(raw.OnsetDate) != "" {
		onset, err = parseDate(raw.OnsetDate)
		if err != nil {
			return CaseRecord{}, fmt.Errorf("parse DT_SIN_PRI %q: %w", raw.OnsetDate, err)
		}
	}

	age, err := strconv.Atoi(strings.TrimSpace(raw.Age))
	if err != nil {
		return CaseRecord{}, fmt.Errorf("parse IDADE %q: %w", raw.Age, err)
	}

	return CaseRecord{
		NotifiedAt:      notified,
		OnsetAt:         onset,
		Year:            notified.Year(),
		Age:             age,
		Sex:             normalizeCategory(raw.Sex),
		Race:            normalizeCategory(raw.Race),
		Hospitalization: normalizeHospitalization(raw.Hospitalization),
		Phenomenon:      normalizeCategory(raw.Phenomenon),
		Intensity:       normalizeCategory(raw.Intensity),
	}, nil
}

var dateLayouts = []string{"2006-01-02", "02/01/2006"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// normalizeHospitalization upper-cases the value and maps anything outside
// the known ternary to IGNORADO, matching how the treated extract encodes
// unfilled SINAN fields.
func normalizeHospitalization(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case HospitalizationYes:
		return HospitalizationYes
	case HospitalizationNo, "NAO":
		return HospitalizationNo
	default:
		return HospitalizationUnknown
	}
}

func normalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryUnknown
	}
	return s
}
