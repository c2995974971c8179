package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/symptom-analyzer/internal/catalog"
	"github.com/symptom-analyzer/internal/domain"
)

// Classifier predicts a condition from a presence vector.
type Classifier interface {
	Predict(vec domain.PresenceVector) (domain.Prediction, error)
}

// Analyzer runs the full pipeline: extract, score, classify, compose.
type Analyzer struct {
	logger     *logrus.Logger
	catalog    *catalog.Catalog
	extractor  *SymptomExtractor
	scorer     *SeverityScorer
	classifier Classifier
	composer   *RecommendationComposer
}

// NewAnalyzer wires the pipeline stages over one catalog.
func NewAnalyzer(logger *logrus.Logger, c *catalog.Catalog, classifier Classifier) *Analyzer {
	return &Analyzer{
		logger:     logger,
		catalog:    c,
		extractor:  NewSymptomExtractor(c),
		scorer:     NewSeverityScorer(c),
		classifier: classifier,
		composer:   NewRecommendationComposer(c),
	}
}

// Catalog returns the tables the analyzer was built over.
func (a *Analyzer) Catalog() *catalog.Catalog { return a.catalog }

// Analyze returns a complete result or an *domain.AnalysisError; never both
// and never a partial result. The context is only used for logging scope.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	start := time.Now()

	vec := a.extractor.Extract(text)
	score := a.scorer.Score(vec)
	urgency := UrgencyForScore(score)

	prediction, err := a.classifier.Predict(vec)
	if err != nil {
		return nil, a.fail(ctx, err, "classification")
	}

	rec, err := a.composer.Compose(prediction.Condition, urgency)
	if err != nil {
		return nil, a.fail(ctx, err, "recommendation")
	}

	result := &domain.AnalysisResult{
		Condition:        prediction.Condition,
		Probability:      prediction.Probability,
		Urgency:          urgency,
		Medications:      rec.Medications,
		Recommendations:  rec.Recommendations,
		ConsultationFees: rec.Fees,
		SeverityScore:    score,
		DetectedSymptoms: a.extractor.Detected(vec),
		Currency:         a.catalog.Currency(),
	}

	fields := logrus.Fields(result.LogFields())
	fields["duration"] = time.Since(start)
	a.logger.WithContext(ctx).WithFields(fields).Info("Symptom analysis completed")

	return result, nil
}

func (a *Analyzer) fail(ctx context.Context, err error, stage string) error {
	a.logger.WithContext(ctx).WithFields(logrus.Fields{
		"stage": stage,
		"error": err.Error(),
	}).Error("Symptom analysis failed")
	return domain.NewAnalysisError(err)
}
