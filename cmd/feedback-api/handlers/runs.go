package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/civiclens/feedback-engine/internal/observability"
	"github.com/civiclens/feedback-engine/internal/storage"
)

// RunsHandler serves persisted analysis run history.
type RunsHandler struct {
	logger     *observability.Logger
	runRepo    *storage.RunRepository
	resultRepo *storage.ResultRepository
}

// NewRunsHandler creates a new runs handler. Repositories may be nil when
// persistence is unavailable; requests then return 503.
func NewRunsHandler(logger *observability.Logger, runRepo *storage.RunRepository, resultRepo *storage.ResultRepository) *RunsHandler {
	return &RunsHandler{logger: logger, runRepo: runRepo, resultRepo: resultRepo}
}

// RunDetailDTO represents a run with its persisted results.
type RunDetailDTO struct {
	Run     *storage.AnalysisRun    `json:"run"`
	Results []storage.CommentResult `json:"results"`
}

// List handles GET /api/v1/runs.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.runRepo == nil {
		writeError(w, http.StatusServiceUnavailable, "run history unavailable", "")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := h.runRepo.List(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Run list failed")
		writeError(w, http.StatusInternalServerError, "run list failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

// Get handles GET /api/v1/runs/{runId}.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.runRepo == nil || h.resultRepo == nil {
		writeError(w, http.StatusServiceUnavailable, "run history unavailable", "")
		return
	}

	runID, err := uuid.Parse(chi.URLParam(r, "runId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id", err.Error())
		return
	}

	run, err := h.runRepo.GetByID(r.Context(), runID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found", "")
			return
		}
		h.logger.Error().Err(err).Msg("Run fetch failed")
		writeError(w, http.StatusInternalServerError, "run fetch failed", err.Error())
		return
	}

	results, err := h.resultRepo.ListByRun(r.Context(), runID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Run results fetch failed")
		writeError(w, http.StatusInternalServerError, "run results fetch failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, RunDetailDTO{Run: run, Results: results})
}
