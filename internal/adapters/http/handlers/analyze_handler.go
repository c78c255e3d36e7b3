package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ballek12/youtube-video-analysis-saa-s/internal/adapters/http/middleware"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/domain"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/ports"
)

const maxBodyBytes = 1 << 16

const (
	msgInvalidBody    = "Invalid request body"
	msgURLRequired    = "URL is required and must be a string"
	msgAnalyzeFailed  = "Failed to analyze video. Please try again later."
	msgHistoryFailed  = "Failed to load analysis history."
	msgAnalysisAbsent = "Analysis not found"
)

type analyzeRequest struct {
	URL any `json:"url"`
}

type historyResponse struct {
	Analyses []domain.AnalysisRecord `json:"analyses"`
}

type AnalyzeHandler struct {
	analyzer ports.Analyzer
	logger   zerolog.Logger
}

func NewAnalyzeHandler(analyzer ports.Analyzer, logger zerolog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, logger: logger}
}

// Analyze trata POST /api/analyze.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	rawURL, ok := req.URL.(string)
	// Só a string vazia é ausente; espaços seguem para a extração.
	if !ok || rawURL == "" {
		writeError(w, http.StatusBadRequest, msgURLRequired)
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), middleware.ClientIdentifier(r), rawURL)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, analysis)
	case domain.IsInvalidVideoURLError(err):
		writeError(w, http.StatusBadRequest, domain.InvalidVideoURLMessage)
	case domain.IsAITimeoutError(err):
		writeError(w, http.StatusGatewayTimeout, domain.AITimeoutMessage)
	default:
		h.logger.Error().Err(err).Msg("analysis failed")
		writeError(w, http.StatusInternalServerError, msgAnalyzeFailed)
	}
}

// History trata GET /api/history.
func (h *AnalyzeHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.analyzer.History(r.Context(), middleware.ClientIdentifier(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("history lookup failed")
		writeError(w, http.StatusInternalServerError, msgHistoryFailed)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Analyses: records})
}

// DeleteHistory trata DELETE /api/history/{id}.
func (h *AnalyzeHandler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.analyzer.DeleteHistory(r.Context(), middleware.ClientIdentifier(r), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case domain.IsNotFoundError(err):
		writeError(w, http.StatusNotFound, msgAnalysisAbsent)
	default:
		h.logger.Error().Err(err).Str("analysis_id", id).Msg("history delete failed")
		writeError(w, http.StatusInternalServerError, msgHistoryFailed)
	}
}
