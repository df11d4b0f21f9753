package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFilter marks filter criteria that could not be parsed. Handlers
// map it to a 400 response.
var ErrInvalidFilter = errors.New("invalid filter")

// FilterCriteria narrows a row set for one request. Zero-value fields impose
// no constraint; present fields AND together.
type FilterCriteria struct {
	YearFrom   *int   // NU_ANO >=
	YearTo     *int   // NU_ANO <=
	Phenomenon string // FENOMENO ==
	Sex        string // CS_SEXO ==
}

// NewFilterCriteria builds criteria from raw request values. Empty strings
// mean "no constraint"; a non-empty year that does not parse as an integer
// is a client error, not a silent no-op.
func NewFilterCriteria(yearFrom, yearTo, phenomenon, sex string) (FilterCriteria, error) {
	c := FilterCriteria{
		Phenomenon: strings.TrimSpace(phenomenon),
		Sex:        strings.TrimSpace(sex),
	}

	var err error
	if c.YearFrom, err = parseYear("anoInicial", yearFrom); err != nil {
		return FilterCriteria{}, err
	}
	if c.YearTo, err = parseYear("anoFinal", yearTo); err != nil {
		return FilterCriteria{}, err
	}
	return c, nil
}

func parseYear(field, value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not a year", ErrInvalidFilter, field, value)
	}
	return &year, nil
}

// IsZero reports whether no criterion is set.
func (c FilterCriteria) IsZero() bool {
	return c.YearFrom == nil && c.YearTo == nil && c.Phenomenon == "" && c.Sex == ""
}

// Apply returns the records satisfying every present criterion. The input
// slice is never modified; callers always get a fresh view.
func (c FilterCriteria) Apply(records []CaseRecord) []CaseRecord {
	if c.IsZero() {
		out := make([]CaseRecord, len(records))
		copy(out, records)
		return out
	}

	out := make([]CaseRecord, 0, len(records))
	for _, r := range records {
		if c.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func (c FilterCriteria) matches(r CaseRecord) bool {
	if c.YearFrom != nil && r.Year < *c.YearFrom {
		return false
	}
	if c.YearTo != nil && r.Year > *c.YearTo {
		return false
	}
	if c.Phenomenon != "" && r.Phenomenon != c.Phenomenon {
		return false
	}
	if c.Sex != "" && r.Sex != c.Sex {
		return false
	}
	return true
}
