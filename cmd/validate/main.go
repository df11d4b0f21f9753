// Command validate performs integrity checks on the deployable artifacts:
// the treated case CSV and the logistic-regression model JSON. It verifies
// column presence, value domains, aggregate consistency, and that the model
// produces finite probabilities for every symptom combination.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -data data/df_dengue_tratado.csv \
//	  -model models/modelo_reglog_otimizado.json
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/denguelab/dengue-dashboard/internal/dataset"
	"github.com/denguelab/dengue-dashboard/internal/domain"
	"github.com/denguelab/dengue-dashboard/internal/model"
	"github.com/denguelab/dengue-dashboard/internal/observability"
	"github.com/denguelab/dengue-dashboard/internal/predict"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data", "data/df_dengue_tratado.csv", "path to the treated case CSV")
	modelPath := flag.String("model", "models/modelo_reglog_otimizado.json", "path to the model artifact JSON")
	flag.Parse()

	if code := run(*dataPath, *modelPath); code != 0 {
		os.Exit(code)
	}
}

func run(dataPath, modelPath string) int {
	fmt.Println("=== Dengue Dashboard Artifact Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ds, err := dataset.Load(dataPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	m, err := model.Load(modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load model: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateDataset(ds),
		validateValueDomains(ds.Records),
		validateAggregates(ds.Records),
		validateModel(m),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d loaded, %d skipped · Model: %s (%d features)\n",
		ds.Size(), ds.SkippedRows, m.Version(), len(m.Features()))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Dataset shape ──

func validateDataset(ds *dataset.Dataset) *phase {
	p := &phase{name: "Phase 1: Dataset shape"}

	if ds.Size() == 0 {
		p.errorf("dataset has no usable rows")
		return p
	}
	if ds.SkippedRows > ds.Size()/10 {
		p.errorf("%d skipped rows against %d loaded (>10%%), source extract looks dirty", ds.SkippedRows, ds.Size())
	}
	return p
}

// ── Phase 2: Value domains ──

var validHospitalization = map[string]bool{
	domain.HospitalizationYes:     true,
	domain.HospitalizationNo:      true,
	domain.HospitalizationUnknown: true,
}

func validateValueDomains(records []domain.CaseRecord) *phase {
	p := &phase{name: "Phase 2: Value domains"}

	for i := range records {
		r := &records[i]
		if r.Age < 0 || r.Age >= 130 {
			p.errorf("record %d: implausible age %d", i, r.Age)
		}
		if !validHospitalization[r.Hospitalization] {
			p.errorf("record %d: unexpected HOSPITALIZ %q", i, r.Hospitalization)
		}
		if r.Year != r.NotifiedAt.Year() {
			p.errorf("record %d: year %d does not match notification date %s", i, r.Year, r.NotifiedAt.Format("2006-01-02"))
		}
		if !r.OnsetAt.IsZero() && r.OnsetAt.After(r.NotifiedAt) {
			p.errorf("record %d: symptom onset %s after notification %s", i,
				r.OnsetAt.Format("2006-01-02"), r.NotifiedAt.Format("2006-01-02"))
		}
	}
	return p
}

// ── Phase 3: Aggregate consistency ──

func validateAggregates(records []domain.CaseRecord) *phase {
	p := &phase{name: "Phase 3: Aggregate consistency"}

	summary := domain.Summarize(records, true)
	if summary.TotalCases != len(records) {
		p.errorf("summary total %d != record count %d", summary.TotalCases, len(records))
	}

	years := domain.CasesByYear(records)
	yearTotal := 0
	for _, c := range years.Cases {
		yearTotal += c
	}
	if yearTotal != len(records) {
		p.errorf("cases-by-year sums to %d, want %d", yearTotal, len(records))
	}

	months := domain.CasesByMonth(records)
	monthTotal := 0
	for _, c := range months.Cases {
		monthTotal += c
	}
	if monthTotal != len(records) {
		p.errorf("cases-by-month sums to %d, want %d", monthTotal, len(records))
	}

	sex := domain.DistributionBySex(records)
	sexTotal := 0
	for _, v := range sex.Values {
		sexTotal += v
	}
	if sexTotal != len(records) {
		p.errorf("sex distribution sums to %d, want %d", sexTotal, len(records))
	}

	ages := domain.HospitalizationByAge(records)
	hospTotal := 0
	for i, h := range ages.Hospitalized {
		if h > ages.Totals[i] {
			p.errorf("age band %s: hospitalized %d exceeds total %d", ages.Buckets[i], h, ages.Totals[i])
		}
		hospTotal += h
	}
	if hospTotal > summary.HospitalizedCases {
		p.errorf("banded hospitalized sum %d exceeds summary count %d", hospTotal, summary.HospitalizedCases)
	}
	return p
}

// ── Phase 4: Model sanity ──

// validateModel scores all 32 symptom combinations and checks every
// probability is finite and inside [0, 100].
func validateModel(m *model.LogisticModel) *phase {
	p := &phase{name: "Phase 4: Model sanity"}

	if len(m.Features()) == 0 {
		p.errorf("artifact declares no features")
		return p
	}

	svc := predict.New(m, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
	tokens := []string{"NÃO", "SIM"}
	for mask := 0; mask < 32; mask++ {
		in := domain.SymptomInput{
			Fever:    tokens[mask&1],
			Myalgia:  tokens[mask>>1&1],
			Headache: tokens[mask>>2&1],
			Vomiting: tokens[mask>>3&1],
			Rash:     tokens[mask>>4&1],
		}
		result, err := svc.Predict(context.Background(), in)
		if err != nil {
			p.errorf("combination %05b: %v", mask, err)
			continue
		}
		if math.IsNaN(result.Probability) || math.IsInf(result.Probability, 0) {
			p.errorf("combination %05b: probability is not finite", mask)
		}
		if result.Probability < 0 || result.Probability > 100 {
			p.errorf("combination %05b: probability %.2f outside [0, 100]", mask, result.Probability)
		}
	}
	return p
}
