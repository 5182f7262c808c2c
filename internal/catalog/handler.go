package catalog

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"symptom-checker/internal/platform/respond"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(c *Catalog) *Handler {
	return &Handler{catalog: c}
}

type conditionsResponse struct {
	Conditions      Conditions `json:"conditions"`
	CommonSymptoms  []string   `json:"commonSymptoms,omitempty"`
	TotalConditions int        `json:"totalConditions"`
}

type conditionDetail struct {
	ID ConditionKey `json:"id"`
	Condition
	SymptomsCount    int `json:"symptomsCount"`
	RiskFactorsCount int `json:"riskFactorsCount"`
}

func (h *Handler) ListConditions(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, conditionsResponse{
		Conditions:      Conditions(h.catalog.All()),
		CommonSymptoms:  h.catalog.CommonSymptoms(),
		TotalConditions: h.catalog.Len(),
	})
}

// ListForAssessment is the catalog as the assessment form loads it.
func (h *Handler) ListForAssessment(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, conditionsResponse{
		Conditions:      Conditions(h.catalog.All()),
		TotalConditions: h.catalog.Len(),
	})
}

func (h *Handler) GetCondition(w http.ResponseWriter, r *http.Request) {
	cond, ok := h.catalog.Get(ConditionKey(chi.URLParam(r, "condition")))
	if !ok {
		respond.Error(w, http.StatusNotFound, "Condition not found")
		return
	}
	respond.JSON(w, http.StatusOK, conditionDetail{
		ID:               cond.ID,
		Condition:        cond,
		SymptomsCount:    len(cond.Symptoms),
		RiskFactorsCount: len(cond.RiskFactors),
	})
}

func (h *Handler) SearchSymptoms(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(q)) < MinSearchLength {
		respond.Error(w, http.StatusBadRequest, "Query parameter 'q' is required and must be at least 2 characters")
		return
	}
	respond.JSON(w, http.StatusOK, h.catalog.Search(q))
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/conditions", h.ListConditions)
	r.Get("/conditions/{condition}", h.GetCondition)
	r.Get("/symptoms/search", h.SearchSymptoms)
	r.Get("/assessment", h.ListForAssessment)
}
