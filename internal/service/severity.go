package service

import (
	"github.com/symptom-analyzer/internal/catalog"
	"github.com/symptom-analyzer/internal/domain"
)

// Urgency thresholds. Comparisons are strict, so a score exactly on a
// threshold falls into the lower tier.
const (
	HighUrgencyThreshold   = 0.6
	MediumUrgencyThreshold = 0.3
)

// SeverityScorer sums the severity weights of detected symptoms.
type SeverityScorer struct {
	weights []float64
}

// NewSeverityScorer binds the scorer to the catalog's weight table.
func NewSeverityScorer(c *catalog.Catalog) *SeverityScorer {
	return &SeverityScorer{weights: c.Weights()}
}

// Score returns the unnormalized weighted sum; more symptoms never lower it.
func (s *SeverityScorer) Score(vec domain.PresenceVector) float64 {
	score := 0.0
	for i, v := range vec {
		if v == 1 && i < len(s.weights) {
			score += s.weights[i]
		}
	}
	return score
}

// UrgencyForScore maps a severity score onto a tier.
func UrgencyForScore(score float64) domain.Urgency {
	switch {
	case score > HighUrgencyThreshold:
		return domain.UrgencyHigh
	case score > MediumUrgencyThreshold:
		return domain.UrgencyMedium
	default:
		return domain.UrgencyLow
	}
}
