package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"symptom-checker/internal/agent"
	"symptom-checker/internal/platform/respond"
	"symptom-checker/internal/scoring"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := decode(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request. Condition and symptoms array required.")
		return
	}

	a, err := h.svc.CreateAssessment(r.Context(), req)
	switch {
	case errors.Is(err, ErrInvalidRequest):
		respond.Error(w, http.StatusBadRequest, "Invalid request. Condition and symptoms array required.")
		return
	case errors.Is(err, scoring.ErrUnknownCondition):
		respond.Error(w, http.StatusBadRequest, "Invalid condition specified.")
		return
	case err != nil:
		log.Printf("Assessment API error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, a)
}

func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetAssessment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, "Assessment not found", "Failed to get assessment")
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, err := h.svc.RenderReport(r.Context(), id)
	if errors.Is(err, ErrUnavailable) {
		respond.Error(w, http.StatusServiceUnavailable, "Reports are not available")
		return
	}
	if err != nil {
		h.fail(w, err, "Assessment not found", "Failed to render report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="assessment_%s.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("write report %s: %v", id, err)
	}
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.CreateSession(r.Context(), r.UserAgent(), clientIP(r))
	if err != nil {
		log.Printf("Create session API error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	respond.JSON(w, http.StatusOK, sess)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Stats(r.Context()))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, "Session not found", "Failed to get session")
		return
	}
	respond.JSON(w, http.StatusOK, sess)
}

func (h *Handler) TouchSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.TouchSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, "Session not found", "Failed to update session")
		return
	}
	respond.JSON(w, http.StatusOK, sess)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	hist, err := h.svc.GetHistory(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.fail(w, err, "Session not found or no assessment history", "Failed to get assessment history")
		return
	}
	respond.JSON(w, http.StatusOK, hist)
}

func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	ins, err := h.svc.GetInsights(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.fail(w, err, "Session not found", "Failed to get insights")
		return
	}
	respond.JSON(w, http.StatusOK, ins)
}

func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Analytics(r.Context()))
}

type healthInsightsRequest struct {
	Symptoms    []string          `json:"symptoms"`
	PatientData agent.PatientData `json:"patientData"`
}

func (h *Handler) HealthInsights(w http.ResponseWriter, r *http.Request) {
	var req healthInsightsRequest
	if err := decode(w, r, &req); err != nil || req.Symptoms == nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request. Symptoms array required.")
		return
	}

	analysis, err := h.svc.HealthInsights(r.Context(), req.Symptoms, req.PatientData)
	if err != nil {
		log.Printf("Health insights error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to generate health insights")
		return
	}
	respond.JSON(w, http.StatusOK, analysis)
}

// fail answers 404 for ErrNotFound and 500 otherwise.
func (h *Handler) fail(w http.ResponseWriter, err error, notFound, internal string) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(w, http.StatusNotFound, notFound)
		return
	}
	log.Printf("%s: %v", internal, err)
	respond.Error(w, http.StatusInternalServerError, internal)
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return "unknown"
}

// RegisterRoutes mounts the assessment and session API. createLimit, when
// non-nil, guards assessment creation.
func RegisterRoutes(r chi.Router, h *Handler, createLimit func(http.Handler) http.Handler) {
	create := r
	if createLimit != nil {
		create = r.With(createLimit)
	}
	create.Post("/assessment", h.CreateAssessment)

	r.Get("/assessments/{id}", h.GetAssessment)
	r.Get("/assessments/{id}/report", h.GetReport)

	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions", h.GetStats)
	r.Get("/sessions/{id}", h.GetSession)
	r.Put("/sessions/{id}", h.TouchSession)

	r.Get("/history/{sessionId}", h.GetHistory)
	r.Get("/history/{sessionId}/insights", h.GetInsights)

	r.Get("/analytics", h.GetAnalytics)
	r.Post("/health-insights", h.HealthInsights)
}
