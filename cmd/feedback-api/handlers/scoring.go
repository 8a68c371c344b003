package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/civiclens/feedback-engine/internal/analysis"
	"github.com/civiclens/feedback-engine/internal/observability"
)

// ScoringHandler exposes the relevance scorer and intent classifier
// directly, without running the full analysis pipeline.
type ScoringHandler struct {
	logger  *observability.Logger
	session *analysis.Session
}

// NewScoringHandler creates a new scoring handler.
func NewScoringHandler(logger *observability.Logger, session *analysis.Session) *ScoringHandler {
	return &ScoringHandler{logger: logger, session: session}
}

// ScoreRequestDTO represents a scoring or classification request.
type ScoreRequestDTO struct {
	Text string `json:"text"`
}

// ScoreRelevance handles POST /api/v1/relevance/score.
func (h *ScoringHandler) ScoreRelevance(w http.ResponseWriter, r *http.Request) {
	var reqDTO ScoreRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if reqDTO.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required", "")
		return
	}

	writeJSON(w, http.StatusOK, h.session.ScoreRelevance(r.Context(), reqDTO.Text))
}

// ClassifyIntent handles POST /api/v1/intent/classify.
func (h *ScoringHandler) ClassifyIntent(w http.ResponseWriter, r *http.Request) {
	var reqDTO ScoreRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if reqDTO.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required", "")
		return
	}

	writeJSON(w, http.StatusOK, h.session.ClassifyIntent(reqDTO.Text))
}
