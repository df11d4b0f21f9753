package domain

import (
	"fmt"
	"math"
	"sort"
)

// Summary is the headline statistics block for a row set.
type Summary struct {
	TotalCases          int     `json:"total_casos"`
	HospitalizedCases   int     `json:"casos_hospitalizados"`
	HospitalizationRate float64 `json:"taxa_hospitalizacao"` // percent, 2 decimals
	MeanAge             float64 `json:"idade_media"`         // years, 1 decimal
	YearsCovered        string  `json:"anos_cobertura,omitempty"`
}

// YearSeries holds case counts per calendar year as parallel slices, years
// ascending.
type YearSeries struct {
	Years []int `json:"anos"`
	Cases []int `json:"casos"`
}

// MonthSeries holds case counts per notification month as parallel slices.
// Only months present in the row set appear, ascending, with Portuguese
// three-letter labels.
type MonthSeries struct {
	Months []string `json:"meses"`
	Cases  []int    `json:"casos"`
}

// Distribution is a category frequency tally as parallel slices, sorted by
// descending count with an ascending label tiebreak so equal counts cannot
// reorder between requests.
type Distribution struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// AgeHospitalization crosses the fixed age buckets with hospitalization
// outcome. All buckets appear, zero-filled, ordered by bin boundary.
type AgeHospitalization struct {
	Buckets      []string `json:"faixas"`
	Hospitalized []int    `json:"hospitalizados"`
	Totals       []int    `json:"total"`
}

var monthLabels = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// ageBucketLabels carry the legacy off-by-one labels of the source system
// ("11-20" labels the [10,20) bin). They are a display contract with the
// dashboard and stay as-is.
var ageBucketLabels = [10]string{"0-10", "11-20", "21-30", "31-40", "41-50", "51-60", "61-70", "71-80", "81-90", "90+"}

// Summarize computes the headline statistics. Year coverage is only reported
// when includeCoverage is set (the unfiltered summary route); filtered
// summaries omit it.
func Summarize(records []CaseRecord, includeCoverage bool) Summary {
	total := len(records)
	if total == 0 {
		return Summary{}
	}

	hospitalized := 0
	ageSum := 0
	minYear, maxYear := records[0].Year, records[0].Year
	for _, r := range records {
		if r.Hospitalized() {
			hospitalized++
		}
		ageSum += r.Age
		if r.Year < minYear {
			minYear = r.Year
		}
		if r.Year > maxYear {
			maxYear = r.Year
		}
	}

	s := Summary{
		TotalCases:          total,
		HospitalizedCases:   hospitalized,
		HospitalizationRate: round2(float64(hospitalized) / float64(total) * 100),
		MeanAge:             round1(float64(ageSum) / float64(total)),
	}
	if includeCoverage {
		s.YearsCovered = fmt.Sprintf("%d - %d", minYear, maxYear)
	}
	return s
}

// CasesByYear counts records per notification year, ascending.
func CasesByYear(records []CaseRecord) YearSeries {
	counts := make(map[int]int)
	for _, r := range records {
		counts[r.Year]++
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	series := YearSeries{Years: years, Cases: make([]int, len(years))}
	for i, y := range years {
		series.Cases[i] = counts[y]
	}
	return series
}

// CasesByMonth counts records per notification month. Months with no cases
// are omitted, matching the source dashboard's frequency output.
func CasesByMonth(records []CaseRecord) MonthSeries {
	var counts [13]int // 1-indexed by month
	for _, r := range records {
		counts[int(r.NotifiedAt.Month())]++
	}

	var series MonthSeries
	for m := 1; m <= 12; m++ {
		if counts[m] == 0 {
			continue
		}
		series.Months = append(series.Months, monthLabels[m-1])
		series.Cases = append(series.Cases, counts[m])
	}
	return series
}

// DistributionBySex tallies CS_SEXO values.
func DistributionBySex(records []CaseRecord) Distribution {
	return distributionBy(records, func(r CaseRecord) string { return r.Sex })
}

// DistributionByRace tallies CS_RACA values.
func DistributionByRace(records []CaseRecord) Distribution {
	return distributionBy(records, func(r CaseRecord) string { return r.Race })
}

// DistributionByPhenomenon tallies FENOMENO values.
func DistributionByPhenomenon(records []CaseRecord) Distribution {
	return distributionBy(records, func(r CaseRecord) string { return r.Phenomenon })
}

func distributionBy(records []CaseRecord, key func(CaseRecord) string) Distribution {
	counts := make(map[string]int)
	for _, r := range records {
		counts[key(r)]++
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	dist := Distribution{Labels: labels, Values: make([]int, len(labels))}
	for i, label := range labels {
		dist.Values[i] = counts[label]
	}
	return dist
}

// HospitalizationByAge buckets records into the fixed age decades and counts
// total and hospitalized cases per bucket. Ages outside [0,120) are not
// bucketable and are excluded.
func HospitalizationByAge(records []CaseRecord) AgeHospitalization {
	agg := AgeHospitalization{
		Buckets:      ageBucketLabels[:],
		Hospitalized: make([]int, len(ageBucketLabels)),
		Totals:       make([]int, len(ageBucketLabels)),
	}

	for _, r := range records {
		i := ageBucketIndex(r.Age)
		if i < 0 {
			continue
		}
		agg.Totals[i]++
		if r.Hospitalized() {
			agg.Hospitalized[i]++
		}
	}
	return agg
}

// ageBucketIndex maps an age to its half-open decade bin, or -1 when the age
// is outside [0,120). The last bin spans [90,120).
func ageBucketIndex(age int) int {
	if age < 0 || age >= 120 {
		return -1
	}
	if age >= 90 {
		return 9
	}
	return age / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
