package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/civiclens/feedback-engine/internal/analysis"
	"github.com/civiclens/feedback-engine/internal/document"
	"github.com/civiclens/feedback-engine/internal/observability"
)

// DocumentHandler handles document load requests.
type DocumentHandler struct {
	logger  *observability.Logger
	session *analysis.Session
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(logger *observability.Logger, session *analysis.Session) *DocumentHandler {
	return &DocumentHandler{logger: logger, session: session}
}

// DocumentRequestDTO represents the API request for loading a document.
type DocumentRequestDTO struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// DocumentResponseDTO represents the API response after loading.
type DocumentResponseDTO struct {
	Title        string       `json:"title"`
	SectionCount int          `json:"section_count"`
	Sections     []SectionDTO `json:"sections,omitempty"`
}

// SectionDTO represents an extracted section.
type SectionDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	WordCount int    `json:"word_count"`
}

// Load handles POST /api/v1/document.
func (h *DocumentHandler) Load(w http.ResponseWriter, r *http.Request) {
	var reqDTO DocumentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	count, err := h.session.SetDocument(r.Context(), reqDTO.Text, reqDTO.Title)
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyDocument) {
			writeError(w, http.StatusBadRequest, "document text is empty", "")
			return
		}
		h.logger.Error().Err(err).Msg("Document load failed")
		writeError(w, http.StatusUnprocessableEntity, "document load failed", err.Error())
		return
	}

	doc := h.session.Document()
	writeJSON(w, http.StatusOK, toDocumentDTO(doc, count))
}

// Current handles GET /api/v1/document.
func (h *DocumentHandler) Current(w http.ResponseWriter, r *http.Request) {
	doc := h.session.Document()
	if doc == nil {
		writeError(w, http.StatusNotFound, "no document loaded", "")
		return
	}
	writeJSON(w, http.StatusOK, toDocumentDTO(doc, len(doc.Sections)))
}

func toDocumentDTO(doc *document.Document, count int) DocumentResponseDTO {
	dto := DocumentResponseDTO{
		Title:        doc.Title,
		SectionCount: count,
		Sections:     make([]SectionDTO, 0, len(doc.Sections)),
	}
	for _, s := range doc.Sections {
		dto.Sections = append(dto.Sections, SectionDTO{
			ID:        s.ID,
			Title:     s.Title,
			WordCount: s.WordCount,
		})
	}
	return dto
}
