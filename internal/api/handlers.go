package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/symptom-analyzer/internal/domain"
	"github.com/symptom-analyzer/internal/middleware"
	"github.com/symptom-analyzer/internal/service"
)

// AnalyzeRequest carries either free text or the symptom form fields.
// Text wins when both are present.
type AnalyzeRequest struct {
	Text *string `json:"text,omitempty"`
	service.SymptomForm
}

// VocabularyResponse lists the symptom keys and condition labels.
type VocabularyResponse struct {
	Version    string   `json:"version"`
	Currency   string   `json:"currency"`
	Symptoms   []string `json:"symptoms"`
	Conditions []string `json:"conditions"`
}

// ConditionInfoResponse describes one condition.
type ConditionInfoResponse struct {
	Condition        string                  `json:"condition"`
	Medications      []string                `json:"medications"`
	ConsultationFees domain.ConsultationFees `json:"consultationFees"`
	Currency         string                  `json:"currency"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"timestamp":       time.Now().UTC(),
		"version":         Version,
		"catalog_version": s.catalog.Version(),
		"conditions":      s.catalog.ConditionCount(),
	})
}

func (s *Server) handleVocabulary(c *gin.Context) {
	c.JSON(http.StatusOK, VocabularyResponse{
		Version:    s.catalog.Version(),
		Currency:   s.catalog.Currency(),
		Symptoms:   s.catalog.Symptoms(),
		Conditions: s.catalog.Conditions(),
	})
}

func (s *Server) handleConditionInfo(c *gin.Context) {
	name := c.Param("name")
	idx, ok := s.catalog.ConditionIndex(name)
	if !ok {
		s.abortWithError(c, http.StatusNotFound, domain.ErrNotFoundCode, "Unknown condition", name)
		return
	}
	condition, _ := s.catalog.Condition(idx)
	fees, _ := s.catalog.Fees(condition)
	meds, ok := s.catalog.Medications(condition)
	if !ok {
		meds = []string{}
	}

	c.JSON(http.StatusOK, ConditionInfoResponse{
		Condition:        condition,
		Medications:      meds,
		ConsultationFees: fees,
		Currency:         s.catalog.Currency(),
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := "request body must be a JSON object"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			details = "request body too large"
		} else if errors.Is(err, io.EOF) {
			details = "request body is empty"
		}
		s.abortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid request", details)
		return
	}

	text, err := req.query()
	if err != nil {
		var validErr *domain.ValidationError
		if errors.As(err, &validErr) {
			s.abortWithError(c, http.StatusBadRequest, domain.ErrValidation, validErr.Error(), validErr.Field)
			return
		}
		s.abortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, err.Error(), "")
		return
	}

	ctx := c.Request.Context()
	result, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		code := domain.ErrInternalServer
		var analysisErr *domain.AnalysisError
		if errors.As(err, &analysisErr) {
			code = analysisErr.Code()
		}
		s.logger.WithFields(logrus.Fields{
			"correlation_id": middleware.CorrelationIDFromContext(ctx),
			"code":           code,
			"error":          err.Error(),
		}).Error("Analyze request failed")
		s.abortWithError(c, http.StatusInternalServerError, code, domain.AnalysisFailedMessage, "")
		return
	}

	if ctx.Err() != nil {
		s.abortWithError(c, http.StatusServiceUnavailable, domain.ErrInternalServer, "Request timeout", "")
		return
	}

	c.JSON(http.StatusOK, result)
}

// query returns the analysis text for the request.
func (r AnalyzeRequest) query() (string, error) {
	if r.Text != nil {
		return *r.Text, nil
	}
	if strings.TrimSpace(r.MainSymptom) == "" && r.Severity == "" && r.Duration == "" {
		return "", domain.NewValidationError("text", "either text or mainSymptom, severity and duration are required", nil)
	}
	if err := r.SymptomForm.Validate(); err != nil {
		return "", err
	}
	return r.SymptomForm.Query(), nil
}
