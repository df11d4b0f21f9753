// Command gendata generates a synthetic dengue case CSV with the same
// columns and value domains as the treated SINAN extract, for local
// development and load testing without the real dataset.
//
// Usage:
//
//	go run ./cmd/gendata -out data/df_dengue_tratado.csv -rows 5000 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var header = []string{
	"DT_NOTIFIC", "DT_SIN_PRI", "IDADE", "CS_SEXO", "CS_RACA",
	"HOSPITALIZ", "FENOMENO", "INTENSIDADE",
}

// Case notifications peak in the hot, rainy first quarter. Weights per
// month, January first.
var monthWeights = []int{18, 16, 20, 14, 8, 4, 2, 2, 2, 3, 5, 6}

var races = []string{"Parda", "Branca", "Preta", "Amarela", "Indígena", "IGNORADO"}
var raceWeights = []int{45, 35, 10, 3, 2, 5}

// ENSO phase cycles with the year: Neutro, El Niño, La Niña.
var phenomena = []string{"Neutro", "El Niño", "La Niña"}
var intensities = map[string][]string{
	"Neutro":  {"IGNORADO"},
	"El Niño": {"Fraca", "Moderada", "Forte"},
	"La Niña": {"Fraca", "Moderada", "Forte"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/df_dengue_tratado.csv", "output CSV path")
	rows := flag.Int("rows", 5000, "number of case rows to generate")
	seed := flag.Int64("seed", 1, "random seed for reproducible output")
	yearFrom := flag.Int("year-from", 2000, "first notification year")
	yearTo := flag.Int("year-to", 2025, "last notification year")
	flag.Parse()

	if *rows <= 0 {
		return fmt.Errorf("-rows must be positive, got %d", *rows)
	}
	if *yearFrom > *yearTo {
		return fmt.Errorf("-year-from %d is after -year-to %d", *yearFrom, *yearTo)
	}

	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}

	hospitalized := 0
	for i := 0; i < *rows; i++ {
		row := generateRow(rng, *yearFrom, *yearTo)
		if row[5] == "SIM" {
			hospitalized++
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	log.Printf("wrote %d rows to %s (%d hospitalized, %.1f%%)",
		*rows, *out, hospitalized, float64(hospitalized)/float64(*rows)*100)
	return nil
}

func generateRow(rng *rand.Rand, yearFrom, yearTo int) []string {
	year := yearFrom + rng.Intn(yearTo-yearFrom+1)
	month := weightedPick(rng, monthWeights) + 1
	day := 1 + rng.Intn(28)
	notified := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Symptoms precede notification by a few days.
	onset := notified.AddDate(0, 0, -(1 + rng.Intn(6)))

	age := sampleAge(rng)
	sex := "F"
	if rng.Intn(100) < 48 {
		sex = "M"
	}
	race := races[weightedPick(rng, raceWeights)]

	phenomenon := phenomena[year%3]
	opts := intensities[phenomenon]
	intensity := opts[rng.Intn(len(opts))]

	return []string{
		notified.Format("2006-01-02"),
		onset.Format("2006-01-02"),
		strconv.Itoa(age),
		sex,
		race,
		hospitalization(rng, age),
		phenomenon,
		intensity,
	}
}

// sampleAge draws an age skewed toward working-age adults, with a tail of
// elderly cases.
func sampleAge(rng *rand.Rand) int {
	switch {
	case rng.Intn(100) < 15:
		return rng.Intn(15) // children
	case rng.Intn(100) < 10:
		return 65 + rng.Intn(40) // elderly, occasionally >90
	default:
		return 15 + rng.Intn(50)
	}
}

// hospitalization biases toward SIM for young children and the elderly, with
// a sliver of IGNORADO to exercise the unknown path.
func hospitalization(rng *rand.Rand, age int) string {
	rate := 4
	if age < 5 || age >= 65 {
		rate = 12
	}
	switch r := rng.Intn(100); {
	case r < rate:
		return "SIM"
	case r < rate+3:
		return "IGNORADO"
	default:
		return "NÃO"
	}
}

func weightedPick(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	r := rng.Intn(total)
	for i, w := range weights {
		r -= w
		if r < 0 {
			return i
		}
	}
	return len(weights) - 1
}
