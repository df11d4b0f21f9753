package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/denguelab/dengue-dashboard/internal/domain"
	"github.com/denguelab/dengue-dashboard/internal/model"
)

// Error strings match what the dashboard frontend already displays.
const (
	msgDatasetUnavailable = "Dados de estatísticas não carregados"
	msgModelUnavailable   = "Modelo não carregado"
	msgInvalidJSON        = "JSON inválido"
)

type errorBody struct {
	Error string `json:"error"`
}

// records guards the statistics routes: an empty or never-loaded dataset
// answers 500 so the frontend can show its "no data" state.
func (s *Server) records(w http.ResponseWriter) ([]domain.CaseRecord, bool) {
	if s.data.Size() == 0 {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msgDatasetUnavailable})
		return nil, false
	}
	return s.data.Records, true
}

func (s *Server) observeAggregation(series string, start time.Time) {
	s.metrics.AggregationDuration.WithLabelValues(series).Observe(time.Since(start).Seconds())
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	recs, ok := s.records(w)
	if !ok {
		return
	}
	defer s.observeAggregation("summary", time.Now())
	writeJSON(w, http.StatusOK, domain.Summarize(recs, true))
}

func (s *Server) handleCasesByYear(w http.ResponseWriter, _ *http.Request) {
	recs, ok := s.records(w)
	if !ok {
		return
	}
	defer s.observeAggregation("casos_por_ano", time.Now())
	writeJSON(w, http.StatusOK, domain.CasesByYear(recs))
}

func (s *Server) handleCasesByMonth(w http.ResponseWriter, _ *http.Request) {
	recs, ok := s.records(w)
	if !ok {
		return
	}
	defer s.observeAggregation("casos_por_mes", time.Now())
	writeJSON(w, http.StatusOK, domain.CasesByMonth(recs))
}

func (s *Server) handleSexDistribution(w http.ResponseWriter, _ *http.Request) {
	recs, ok := s.records(w)
	if !ok {
		return
	}
	defer s.observeAggregation("distribuicao_sexo", time.Now())
	writeJSON(w, http.StatusOK, domain.DistributionBySex(recs))
}

func (s *Server) handleRaceDistribution(w http.ResponseWriter, _ *http.Request) {
	recs, ok := s.records(w)
	if !ok {
		return
	}
	defer s.observeAggregation("distribuicao_raca", time.Now())
	writeJSON(w, http.StatusOK, domain.DistributionByRace(recs))
}

func (s *Server) handlePhenomenonDistribution(w http.ResponseWriter, _ *http.Request) {
	recs, ok := s.records(w)
	if !ok {
		return
	}
	defer s.observeAggregation("fenomeno_climatico", time.Now())
	writeJSON(w, http.StatusOK, domain.DistributionByPhenomenon(recs))
}

func (s *Server) handleAgeHospitalization(w http.ResponseWriter, _ *http.Request) {
	recs, ok := s.records(w)
	if !ok {
		return
	}
	defer s.observeAggregation("hospitalizacao_por_idade", time.Now())
	writeJSON(w, http.StatusOK, domain.HospitalizationByAge(recs))
}

// flexString accepts a JSON string or number. The dashboard select boxes
// post year filters both ways depending on the browser.
type flexString string

func (v *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = flexString(n.String())
	return nil
}

type filterRequest struct {
	YearFrom   flexString `json:"anoInicial"`
	YearTo     flexString `json:"anoFinal"`
	Phenomenon flexString `json:"fenomeno"`
	Sex        flexString `json:"sexo"`
}

type filteredResponse struct {
	Summary            domain.Summary            `json:"summary"`
	CasesByYear        domain.YearSeries         `json:"casosPorAno"`
	SexDistribution    domain.Distribution       `json:"distribuicaoSexo"`
	CasesByMonth       domain.MonthSeries        `json:"casosPorMes"`
	Phenomenon         domain.Distribution       `json:"fenomenoClimatico"`
	AgeHospitalization domain.AgeHospitalization `json:"hospitalizacaoIdade"`
	RaceDistribution   domain.Distribution       `json:"racaDistribution"`
}

func (s *Server) handleFiltered(w http.ResponseWriter, r *http.Request) {
	recs, ok := s.records(w)
	if !ok {
		return
	}

	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgInvalidJSON})
		return
	}

	criteria, err := domain.NewFilterCriteria(
		string(req.YearFrom), string(req.YearTo), string(req.Phenomenon), string(req.Sex))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	defer s.observeAggregation("filtered", time.Now())
	filtered := criteria.Apply(recs)
	writeJSON(w, http.StatusOK, filteredResponse{
		Summary:            domain.Summarize(filtered, false),
		CasesByYear:        domain.CasesByYear(filtered),
		SexDistribution:    domain.DistributionBySex(filtered),
		CasesByMonth:       domain.CasesByMonth(filtered),
		Phenomenon:         domain.DistributionByPhenomenon(filtered),
		AgeHospitalization: domain.HospitalizationByAge(filtered),
		RaceDistribution:   domain.DistributionByRace(filtered),
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var in domain.SymptomInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgInvalidJSON})
		return
	}

	result, err := s.predictor.Predict(r.Context(), in)
	switch {
	case errors.Is(err, model.ErrUnavailable):
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msgModelUnavailable})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Erro na predição: " + err.Error()})
	default:
		writeJSON(w, http.StatusOK, map[string]float64{
			"probabilidade_hospitalizacao": result.Probability,
		})
	}
}

func (s *Server) handleModelInfo(w http.ResponseWriter, _ *http.Request) {
	info, err := s.predictor.ModelInfo()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msgModelUnavailable})
		return
	}
	writeJSON(w, http.StatusOK, info)
}
