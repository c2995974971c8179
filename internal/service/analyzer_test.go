package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-analyzer/internal/catalog"
	"github.com/symptom-analyzer/internal/domain"
)

type stubClassifier struct {
	prediction domain.Prediction
	err        error
}

func (s *stubClassifier) Predict(domain.PresenceVector) (domain.Prediction, error) {
	return s.prediction, s.err
}

func newTestAnalyzer(seed uint64) *Analyzer {
	c := catalog.Default()
	return NewAnalyzer(testLogger(), c, NewNeuralClassifier(testLogger(), c, domain.ClassifierConfig{Seed: seed}))
}

func TestAnalyzeSevereFeverScenario(t *testing.T) {
	analyzer := newTestAnalyzer(21)

	result, err := analyzer.Analyze(context.Background(), "I have a severe fever and difficulty breathing for 3 days")
	require.NoError(t, err)

	assert.Equal(t, []string{"fever", "difficulty_breathing"}, result.DetectedSymptoms)
	assert.InDelta(t, 1.4, result.SeverityScore, 1e-9)
	assert.Equal(t, domain.UrgencyHigh, result.Urgency)
	assert.Contains(t, result.Recommendations, "Seek immediate medical attention")
	assert.Equal(t, 1, countPrefix(result.Recommendations, "Initial consultation fee"))
	assert.Equal(t, 0, countPrefix(result.Recommendations, "Follow-up consultation fee"))

	_, known := analyzer.Catalog().ConditionIndex(result.Condition)
	assert.True(t, known)
	assert.GreaterOrEqual(t, result.Probability, 0.0)
	assert.LessOrEqual(t, result.Probability, 1.0)
	assert.Equal(t, "KSH", result.Currency)
}

func TestAnalyzeEmptyText(t *testing.T) {
	analyzer := newTestAnalyzer(21)
	ctx := context.Background()

	first, err := analyzer.Analyze(ctx, "")
	require.NoError(t, err)

	assert.Empty(t, first.DetectedSymptoms)
	assert.Equal(t, 0.0, first.SeverityScore)
	assert.Equal(t, domain.UrgencyLow, first.Urgency)
	assert.Contains(t, first.Recommendations, "Continue normal activities with caution")
	assert.Contains(t, first.Recommendations, "Practice preventive measures")

	meds, ok := analyzer.Catalog().Medications(first.Condition)
	require.True(t, ok)
	assert.Equal(t, meds, first.Medications)

	fees, _ := analyzer.Catalog().Fees(first.Condition)
	assert.Equal(t, fees, first.ConsultationFees)

	second, err := analyzer.Analyze(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, first.Condition, second.Condition, "condition is stable for the memoized model")
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	analyzer := newTestAnalyzer(0)
	ctx := context.Background()
	text := "headache, nausea and dizziness for two days"

	first, err := analyzer.Analyze(ctx, text)
	require.NoError(t, err)
	second, err := analyzer.Analyze(ctx, text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeConcurrentCallers(t *testing.T) {
	analyzer := newTestAnalyzer(8)
	ctx := context.Background()
	texts := []string{"fever", "cough and congestion", "", "chest pain and confusion"}

	expected := make(map[string]*domain.AnalysisResult, len(texts))
	for _, text := range texts {
		r, err := analyzer.Analyze(ctx, text)
		require.NoError(t, err)
		expected[text] = r
	}

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		text := texts[i%len(texts)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := analyzer.Analyze(ctx, text)
			assert.NoError(t, err)
			assert.Equal(t, expected[text], r)
		}()
	}
	wg.Wait()
}

func TestAnalyzeWrapsFailures(t *testing.T) {
	c := catalog.Default()

	tests := []struct {
		name       string
		classifier Classifier
		code       string
	}{
		{
			name:       "model initialization",
			classifier: NewNeuralClassifier(testLogger(), c, domain.ClassifierConfig{StdDev: -1}),
			code:       domain.ErrModelInit,
		},
		{
			name:       "condition missing from tables",
			classifier: &stubClassifier{prediction: domain.Prediction{Condition: "Scurvy", Probability: 1}},
			code:       domain.ErrUnknownCondition,
		},
		{
			name:       "any other failure",
			classifier: &stubClassifier{err: errors.New("boom")},
			code:       domain.ErrAnalysis,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := NewAnalyzer(testLogger(), c, tt.classifier)

			result, err := analyzer.Analyze(context.Background(), "fever")
			assert.Nil(t, result, "no partial result")

			var analysisErr *domain.AnalysisError
			require.ErrorAs(t, err, &analysisErr)
			assert.Equal(t, domain.AnalysisFailedMessage, analysisErr.Message)
			assert.Equal(t, tt.code, analysisErr.Code())
		})
	}
}
