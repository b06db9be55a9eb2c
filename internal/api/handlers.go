package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"greenbier/grader/internal/job"
	"greenbier/grader/internal/repository"

	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

// Handler serves the grading endpoints
type Handler struct {
	runner    Runner
	summaries SummaryReader
	health    HealthChecker
	loc       *time.Location
	now       func() time.Time
}

// Grade runs the grading job for ?date= (default yesterday in the reference zone)
func (h *Handler) Grade(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	report, err := h.runner.Run(r.Context(), date)
	switch {
	case errors.Is(err, job.ErrInvalidDate):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("date", date).Msg("Grading run failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// Summary returns the stored summary for ?date=
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}
	if h.summaries == nil {
		respondError(w, http.StatusServiceUnavailable, "summaries are not available")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.summaries.GetSummary(ctx, date)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, "no summary for "+date)
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("date", date).Msg("Failed to read summary")
		respondError(w, http.StatusInternalServerError, "failed to read summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// HealthCheck reports service and database health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.now().UTC(),
	}

	if h.health != nil {
		if err := h.health.Health(r.Context()); err != nil {
			body["status"] = "unhealthy"
			body["error"] = err.Error()
			respondJSON(w, http.StatusServiceUnavailable, body)
			return
		}
	}

	respondJSON(w, http.StatusOK, body)
}

func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return job.Yesterday(h.now(), h.loc), true
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return "", false
	}
	return date, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
