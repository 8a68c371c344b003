package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/civiclens/feedback-engine/internal/analysis"
	"github.com/civiclens/feedback-engine/internal/observability"
	"github.com/civiclens/feedback-engine/internal/report"
	"github.com/civiclens/feedback-engine/internal/storage"
)

// AnalysisHandler handles comment and batch analysis requests. It keeps the
// most recent batch in memory so the summary endpoint can aggregate it.
type AnalysisHandler struct {
	logger     *observability.Logger
	session    *analysis.Session
	runRepo    *storage.RunRepository
	resultRepo *storage.ResultRepository

	mu          sync.Mutex
	lastResults []analysis.Result
}

// NewAnalysisHandler creates a new analysis handler. Repositories may be
// nil when persistence is unavailable.
func NewAnalysisHandler(logger *observability.Logger, session *analysis.Session, runRepo *storage.RunRepository, resultRepo *storage.ResultRepository) *AnalysisHandler {
	return &AnalysisHandler{
		logger:     logger,
		session:    session,
		runRepo:    runRepo,
		resultRepo: resultRepo,
	}
}

// CommentRequestDTO represents a single-comment analysis request.
type CommentRequestDTO struct {
	Comment string `json:"comment"`
}

// BatchRequestDTO represents a batch analysis request.
type BatchRequestDTO struct {
	Comments []string `json:"comments"`
	Save     bool     `json:"save,omitempty"`
}

// BatchResponseDTO represents the batch analysis response.
type BatchResponseDTO struct {
	RunID   string            `json:"run_id,omitempty"`
	Results []analysis.Result `json:"results"`
	Summary analysis.Summary  `json:"summary"`
}

// Comment handles POST /api/v1/analysis/comment.
func (h *AnalysisHandler) Comment(w http.ResponseWriter, r *http.Request) {
	var reqDTO CommentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if reqDTO.Comment == "" {
		writeError(w, http.StatusBadRequest, "comment is required", "")
		return
	}

	result := h.session.AnalyzeComment(r.Context(), reqDTO.Comment)
	result.CommentID = 1
	writeJSON(w, http.StatusOK, result)
}

// Batch handles POST /api/v1/analysis/batch.
func (h *AnalysisHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var reqDTO BatchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if len(reqDTO.Comments) == 0 {
		writeError(w, http.StatusBadRequest, "comments are required", "")
		return
	}

	results, err := h.session.AnalyzeBatch(r.Context(), reqDTO.Comments, nil)
	if err != nil {
		h.logger.Error().Err(err).Int("comments", len(reqDTO.Comments)).Msg("Batch analysis failed")
		writeError(w, http.StatusInternalServerError, "batch analysis failed", err.Error())
		return
	}

	h.mu.Lock()
	h.lastResults = results
	h.mu.Unlock()

	docTitle := ""
	sectionCount := 0
	if doc := h.session.Document(); doc != nil {
		docTitle = doc.Title
		sectionCount = len(doc.Sections)
	}
	summary := analysis.BuildSummary(docTitle, results)

	respDTO := BatchResponseDTO{Results: results, Summary: summary}

	if reqDTO.Save && h.runRepo != nil && h.resultRepo != nil {
		run := &storage.AnalysisRun{
			ID:            uuid.New(),
			DocumentTitle: docTitle,
			SectionCount:  sectionCount,
			CommentCount:  len(results),
			Summary:       summary.Text,
			CreatedAt:     time.Now().UTC(),
		}
		if err := h.runRepo.Create(r.Context(), run); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to persist analysis run")
		} else if err := h.resultRepo.InsertBatch(r.Context(), run.ID, report.ToStored(results)); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to persist batch results")
		} else {
			respDTO.RunID = run.ID.String()
		}
	}

	writeJSON(w, http.StatusOK, respDTO)
}

// SummaryResponseDTO wraps the batch summary with keyword frequencies.
type SummaryResponseDTO struct {
	DocumentTitle string               `json:"document_title"`
	Summary       analysis.Summary     `json:"summary"`
	TopKeywords   []analysis.WordCount `json:"top_keywords"`
}

// Summary handles GET /api/v1/analysis/summary.
func (h *AnalysisHandler) Summary(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	results := h.lastResults
	h.mu.Unlock()

	if len(results) == 0 {
		writeError(w, http.StatusNotFound, "no batch analyzed yet", "")
		return
	}

	docTitle := ""
	if doc := h.session.Document(); doc != nil {
		docTitle = doc.Title
	}

	texts := make([]string, 0, len(results))
	for _, res := range results {
		texts = append(texts, res.Comment)
	}

	writeJSON(w, http.StatusOK, SummaryResponseDTO{
		DocumentTitle: docTitle,
		Summary:       analysis.BuildSummary(docTitle, results),
		TopKeywords:   analysis.KeywordFrequency(texts, 10),
	})
}
