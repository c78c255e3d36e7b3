package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/domain"
)

type stubAnalyzer struct {
	err       error
	clientIDs []string
	urls      []string
	records   []domain.AnalysisRecord
}

func (a *stubAnalyzer) Analyze(_ context.Context, clientID, rawURL string) (domain.Analysis, error) {
	a.clientIDs = append(a.clientIDs, clientID)
	a.urls = append(a.urls, rawURL)
	if a.err != nil {
		return domain.Analysis{}, a.err
	}
	id, err := domain.VideoIDFromInput(rawURL)
	if err != nil {
		return domain.Analysis{}, err
	}
	return domain.Analysis{
		Video:    domain.Video{ID: id, URL: id.WatchURL(), Thumbnail: id.ThumbnailURL()},
		Insights: domain.DefaultInsights(),
	}, nil
}

func (a *stubAnalyzer) History(_ context.Context, clientID string) ([]domain.AnalysisRecord, error) {
	a.clientIDs = append(a.clientIDs, clientID)
	return a.records, a.err
}

func (a *stubAnalyzer) DeleteHistory(_ context.Context, clientID, id string) error {
	a.clientIDs = append(a.clientIDs, clientID)
	if id != "known" {
		return domain.ErrAnalysisNotFound
	}
	return nil
}

func postAnalyze(t *testing.T, h *AnalyzeHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Real-IP", "198.51.100.1")
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestAnalyzeHandler_Success(t *testing.T) {
	analyzer := &stubAnalyzer{}
	h := NewAnalyzeHandler(analyzer, zerolog.Nop())

	rec := postAnalyze(t, h, `{"url": "https://youtube.com/watch?v=dQw4w9WgXcQ"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var analysis domain.Analysis
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&analysis))
	assert.Equal(t, domain.VideoID("dQw4w9WgXcQ"), analysis.Video.ID)
	assert.Equal(t, []string{"198.51.100.1"}, analyzer.clientIDs)
}

func TestAnalyzeHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "not json", body: `url=abc`, want: msgInvalidBody},
		{name: "empty body", body: ``, want: msgInvalidBody},
		{name: "missing url", body: `{}`, want: msgURLRequired},
		{name: "url not a string", body: `{"url": 42}`, want: msgURLRequired},
		{name: "empty url", body: `{"url": ""}`, want: msgURLRequired},
		{name: "invalid youtube url", body: `{"url": "not a url"}`, want: domain.InvalidVideoURLMessage},
		{name: "whitespace url is invalid, not missing", body: `{"url": "   "}`, want: domain.InvalidVideoURLMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postAnalyze(t, NewAnalyzeHandler(&stubAnalyzer{}, zerolog.Nop()), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, decodeError(t, rec))
		})
	}
}

func TestAnalyzeHandler_Timeout(t *testing.T) {
	analyzer := &stubAnalyzer{err: fmt.Errorf("generate: %w", domain.ErrAITimeout)}
	rec := postAnalyze(t, NewAnalyzeHandler(analyzer, zerolog.Nop()), `{"url": "dQw4w9WgXcQ"}`)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, domain.AITimeoutMessage, decodeError(t, rec))
}

func TestAnalyzeHandler_InternalError(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("boom")}
	rec := postAnalyze(t, NewAnalyzeHandler(analyzer, zerolog.Nop()), `{"url": "dQw4w9WgXcQ"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgAnalyzeFailed, decodeError(t, rec))
}

func TestAnalyzeHandler_History(t *testing.T) {
	analyzer := &stubAnalyzer{records: []domain.AnalysisRecord{{ID: "known", VideoID: "dQw4w9WgXcQ"}}}
	h := NewAnalyzeHandler(analyzer, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body historyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Analyses, 1)
	assert.Equal(t, "known", body.Analyses[0].ID)
}

func TestAnalyzeHandler_DeleteHistory(t *testing.T) {
	h := NewAnalyzeHandler(&stubAnalyzer{}, zerolog.Nop())
	r := chi.NewRouter()
	r.Delete("/api/history/{id}", h.DeleteHistory)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/history/known", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/history/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
