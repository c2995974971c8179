package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-analyzer/internal/catalog"
	"github.com/symptom-analyzer/internal/domain"
	"github.com/symptom-analyzer/internal/service"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze(context.Context, string) (*domain.AnalysisResult, error) {
	return nil, domain.NewAnalysisError(&domain.UnknownConditionError{Condition: "Gout", Table: "fee schedule"})
}

type recordingAnalyzer struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordingAnalyzer) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

func (r *recordingAnalyzer) Analyze(_ context.Context, text string) (*domain.AnalysisResult, error) {
	r.mu.Lock()
	r.texts = append(r.texts, text)
	r.mu.Unlock()
	return &domain.AnalysisResult{
		Condition:        "Flu",
		Probability:      0.5,
		Urgency:          domain.UrgencyLow,
		Medications:      []string{"Plenty of fluids and rest"},
		Recommendations:  []string{"Continue normal activities with caution"},
		ConsultationFees: domain.ConsultationFees{Initial: 400, FollowUp: 250},
		DetectedSymptoms: []string{},
		Currency:         "KSH",
	}, nil
}

func testServerConfig() domain.ServerConfig {
	return domain.ServerConfig{Mode: gin.TestMode, AllowedOrigins: []string{"*"}}
}

func newTestServer(t *testing.T, analyzer domain.SymptomAnalyzer) *Server {
	t.Helper()
	s, err := NewServer(testServerConfig(), testLogger(), analyzer, catalog.Default())
	require.NoError(t, err)
	return s
}

func realAnalyzer() domain.SymptomAnalyzer {
	c := catalog.Default()
	classifier := service.NewNeuralClassifier(testLogger(), c, domain.ClassifierConfig{Seed: 7, HiddenLayers: []int{16}})
	return service.NewAnalyzer(testLogger(), c, classifier)
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, realAnalyzer())
	w := do(s, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, catalog.Default().Version(), body["catalog_version"])
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestVocabulary(t *testing.T) {
	s := newTestServer(t, realAnalyzer())
	w := do(s, http.MethodGet, "/api/v1/vocabulary", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body VocabularyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Symptoms, 30)
	assert.Len(t, body.Conditions, 15)
	assert.Equal(t, "KSH", body.Currency)
}

func TestConditionInfo(t *testing.T) {
	s := newTestServer(t, realAnalyzer())

	w := do(s, http.MethodGet, "/api/v1/conditions/Flu", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body ConditionInfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Flu", body.Condition)
	assert.Equal(t, domain.ConsultationFees{Initial: 400, FollowUp: 250}, body.ConsultationFees)
	assert.NotEmpty(t, body.Medications)

	w = do(s, http.MethodGet, "/api/v1/conditions/Gout", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.ErrNotFoundCode, apiErr.Code)
	assert.NotEmpty(t, apiErr.RequestID)
}

func TestAnalyzeText(t *testing.T) {
	s := newTestServer(t, realAnalyzer())
	w := do(s, http.MethodPost, "/api/v1/analyze", `{"text":"I have a severe fever and difficulty breathing for 3 days"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, domain.UrgencyHigh, result.Urgency)
	assert.Equal(t, []string{"fever", "difficulty_breathing"}, result.DetectedSymptoms)
	assert.Contains(t, result.Recommendations, "Seek immediate medical attention")
}

func TestAnalyzeEmptyTextIsValid(t *testing.T) {
	s := newTestServer(t, realAnalyzer())
	w := do(s, http.MethodPost, "/api/v1/analyze", `{"text":""}`)

	require.Equal(t, http.StatusOK, w.Code)
	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, domain.UrgencyLow, result.Urgency)
}

func TestAnalyzeForm(t *testing.T) {
	analyzer := &recordingAnalyzer{}
	s := newTestServer(t, analyzer)

	w := do(s, http.MethodPost, "/api/v1/analyze",
		`{"mainSymptom":"headache","additionalInfo":"and nausea","severity":"moderate","duration":"2 days"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"headache and nausea. Severity: moderate. Duration: 2 days"}, analyzer.recorded())
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{name: "not json", body: `fever`, code: domain.ErrInvalidInput},
		{name: "empty body", body: "", code: domain.ErrInvalidInput},
		{name: "no fields", body: `{}`, code: domain.ErrValidation},
		{name: "short main symptom", body: `{"mainSymptom":"ab","severity":"mild","duration":"1 day"}`, code: domain.ErrValidation},
		{name: "bad severity", body: `{"mainSymptom":"headache","severity":"extreme","duration":"1 day"}`, code: domain.ErrValidation},
		{name: "missing duration", body: `{"mainSymptom":"headache","severity":"mild"}`, code: domain.ErrValidation},
		{name: "too large", body: `{"text":"` + strings.Repeat("a", maxBodyBytes) + `"}`, code: domain.ErrInvalidInput},
	}

	analyzer := &recordingAnalyzer{}
	s := newTestServer(t, analyzer)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, http.MethodPost, "/api/v1/analyze", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			var apiErr domain.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
	assert.Empty(t, analyzer.recorded())
}

func TestAnalyzeFailureHidesCause(t *testing.T) {
	s := newTestServer(t, failingAnalyzer{})
	w := do(s, http.MethodPost, "/api/v1/analyze", `{"text":"fever"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.AnalysisFailedMessage, apiErr.Message)
	assert.Equal(t, domain.ErrUnknownCondition, apiErr.Code)
	assert.NotContains(t, w.Body.String(), "Gout")
}

func TestRateLimit(t *testing.T) {
	cfg := testServerConfig()
	cfg.RateLimit = domain.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 2, MaxClients: 10}
	s, err := NewServer(cfg, testLogger(), &recordingAnalyzer{}, catalog.Default())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/api/v1/vocabulary", "").Code)
	}
	w := do(s, http.MethodGet, "/api/v1/vocabulary", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/health", "").Code, "health is not limited")
}

func TestRateLimiterPerClient(t *testing.T) {
	limiter, err := NewRateLimiter(domain.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1, MaxClients: 1})
	require.NoError(t, err)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
	assert.True(t, limiter.Allow("10.0.0.1"), "evicted client starts with a fresh bucket")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &recordingAnalyzer{})
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "https://clinic.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStartStops(t *testing.T) {
	cfg := testServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	s, err := NewServer(cfg, testLogger(), &recordingAnalyzer{}, catalog.Default())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	cancel()

	err = <-done
	assert.True(t, err == nil || errors.Is(err, http.ErrServerClosed))
}

