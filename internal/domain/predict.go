package domain

import (
	"fmt"
	"strings"
	"time"
)

// affirmative is the only token that sets a symptom flag. Comparison is
// case-insensitive; every other value, including absent, is negative.
const affirmative = "SIM"

// Symptom feature names as the training pipeline knows them.
const (
	FeatureFever    = "FEBRE"
	FeatureMyalgia  = "MIALGIA"
	FeatureHeadache = "CEFALEIA"
	FeatureVomiting = "VOMITO"
	FeatureRash     = "EXANTEMA"
	FeatureSeverity = "SEVERITY_SCORE"
)

// SymptomInput carries the five raw symptom tokens of one prediction request.
type SymptomInput struct {
	Fever    string `json:"febre"`
	Myalgia  string `json:"mialgia"`
	Headache string `json:"cefaleia"`
	Vomiting string `json:"vomito"`
	Rash     string `json:"exantema"`
}

// Flags coerces the raw tokens to binary flags in the order fever, myalgia,
// headache, vomiting, rash.
func (s SymptomInput) Flags() (fever, myalgia, headache, vomiting, rash int) {
	return symptomFlag(s.Fever), symptomFlag(s.Myalgia), symptomFlag(s.Headache),
		symptomFlag(s.Vomiting), symptomFlag(s.Rash)
}

// SeverityScore is the weighted symptom sum consumed by the model. The 3×
// vomiting weight is fixed by the training pipeline.
func (s SymptomInput) SeverityScore() int {
	fever, myalgia, headache, vomiting, rash := s.Flags()
	return fever + myalgia + headache + 3*vomiting + rash
}

func symptomFlag(token string) int {
	if strings.EqualFold(strings.TrimSpace(token), affirmative) {
		return 1
	}
	return 0
}

// Default feature values standing in for data not collected from the user.
// They reproduce the training-time integration exactly: changing any of them
// is a model change, not a service change.
const (
	defaultSymptomToNotifyDays = 2    // DIAS_SINTOMA_NOTIFIC_TEMP / DIAS_SINTOMA_NOTIFIC
	defaultQuarter             = 1    // TRIMESTRE, peak-incidence summer quarter
	defaultMonth               = 3    // MES, March case peak
	defaultHasComorbidity      = 0    // TEM_COMORBIDADE
	defaultYear                = 2024 // NU_ANO / ANO
	defaultIgnoredCount        = 0    // QTD_IGNORADOS
	defaultAge                 = 35   // IDADE, dataset mean
	defaultHepatopathy         = 0    // HEPATOPAT_BIN
	defaultComorbidityScore    = 0    // COMORBIDADE_SCORE
	defaultDiabetes            = 0    // DIABETES_BIN
	defaultRenalDisease        = 0    // RENAL_BIN
)

// FeatureValues maps every feature name the trained artifacts may declare to
// its inference-time value: the five symptom flags, the derived severity
// score, and the fixed defaults for everything else.
func (s SymptomInput) FeatureValues() map[string]float64 {
	fever, myalgia, headache, vomiting, rash := s.Flags()
	return map[string]float64{
		FeatureFever:    float64(fever),
		FeatureMyalgia:  float64(myalgia),
		FeatureHeadache: float64(headache),
		FeatureVomiting: float64(vomiting),
		FeatureRash:     float64(rash),
		FeatureSeverity: float64(s.SeverityScore()),

		"DIAS_SINTOMA_NOTIFIC_TEMP": defaultSymptomToNotifyDays,
		"DIAS_SINTOMA_NOTIFIC":      defaultSymptomToNotifyDays,
		"TRIMESTRE":                 defaultQuarter,
		"MES":                       defaultMonth,
		"TEM_COMORBIDADE":           defaultHasComorbidity,
		"NU_ANO":                    defaultYear,
		"ANO":                       defaultYear,
		"QTD_IGNORADOS":             defaultIgnoredCount,
		"IDADE":                     defaultAge,
		"HEPATOPAT_BIN":             defaultHepatopathy,
		"COMORBIDADE_SCORE":         defaultComorbidityScore,
		"DIABETES_BIN":              defaultDiabetes,
		"RENAL_BIN":                 defaultRenalDisease,
	}
}

// FeatureVector assembles the numeric vector for the given feature order,
// typically the order declared by the loaded artifact. An undeclared feature
// name is an error so artifact/service schema drift fails loudly instead of
// scoring garbage.
func (s SymptomInput) FeatureVector(featureOrder []string) ([]float64, error) {
	values := s.FeatureValues()
	vector := make([]float64, len(featureOrder))
	for i, name := range featureOrder {
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("no value for model feature %q", name)
		}
		vector[i] = v
	}
	return vector, nil
}

// PredictionAudit is the record published for offline model monitoring after
// each scored prediction.
type PredictionAudit struct {
	Symptoms     SymptomInput `json:"sintomas"`
	Severity     int          `json:"severity_score"`
	Probability  float64      `json:"probabilidade_hospitalizacao"`
	ModelVersion string       `json:"model_version"`
	GeneratedAt  time.Time    `json:"generated_at"`
}

// NewPredictionAudit stamps an audit record with the domain clock so tests
// can freeze the timestamp.
func NewPredictionAudit(in SymptomInput, probability float64, modelVersion string) PredictionAudit {
	return PredictionAudit{
		Symptoms:     in,
		Severity:     in.SeverityScore(),
		Probability:  probability,
		ModelVersion: modelVersion,
		GeneratedAt:  clock.Now(),
	}
}
