package service

import (
	"strconv"

	"github.com/symptom-analyzer/internal/catalog"
	"github.com/symptom-analyzer/internal/domain"
)

// General advice that opens every recommendation list.
var baseRecommendations = []string{
	"Rest and stay hydrated",
	"Monitor your symptoms",
}

// RecommendationComposer builds advice and fee lines from the catalog tables.
type RecommendationComposer struct {
	catalog *catalog.Catalog
}

// NewRecommendationComposer creates a composer over c.
func NewRecommendationComposer(c *catalog.Catalog) *RecommendationComposer {
	return &RecommendationComposer{catalog: c}
}

// Compose returns the medications, the ordered recommendation list and the
// fee pair for a condition at the given tier. A condition missing from the
// medication table gets no medications; one missing from the fee schedule
// is an error.
func (r *RecommendationComposer) Compose(condition string, urgency domain.Urgency) (*domain.Recommendation, error) {
	if !urgency.IsValid() {
		return nil, domain.NewValidationError("urgency", "must be low, medium or high", string(urgency))
	}

	fees, ok := r.catalog.Fees(condition)
	if !ok {
		return nil, &domain.UnknownConditionError{Condition: condition, Table: "fee schedule"}
	}

	meds, ok := r.catalog.Medications(condition)
	if !ok {
		meds = []string{}
	}

	recs := make([]string, 0, len(baseRecommendations)+len(meds)+5)
	recs = append(recs, baseRecommendations...)
	recs = append(recs, meds...)
	recs = append(recs, r.tierBlock(urgency, fees)...)

	return &domain.Recommendation{
		Medications:     meds,
		Recommendations: recs,
		Fees:            fees,
	}, nil
}

func (r *RecommendationComposer) tierBlock(urgency domain.Urgency, fees domain.ConsultationFees) []string {
	initial := r.amount(fees.Initial)

	switch urgency {
	case domain.UrgencyHigh:
		return []string{
			"Seek immediate medical attention",
			"Schedule an urgent consultation",
			"Initial consultation fee: " + initial,
			"Consider emergency care if symptoms worsen",
		}
	case domain.UrgencyMedium:
		return []string{
			"Schedule a follow-up appointment",
			"Begin prescribed treatment plan",
			"Initial consultation fee: " + initial,
			"Follow-up consultation fee: " + r.amount(fees.FollowUp),
			"Contact your doctor if symptoms persist",
		}
	default:
		return []string{
			"Continue normal activities with caution",
			"Use over-the-counter medications as listed above",
			"If symptoms persist beyond 5-7 days:",
			"  - Schedule a consultation (Fee: " + initial + ")",
			"Practice preventive measures",
		}
	}
}

// amount renders a fee with the currency prefix and no separator, e.g. KSH300.
func (r *RecommendationComposer) amount(v float64) string {
	return r.catalog.Currency() + FormatAmount(v)
}

// FormatAmount renders the shortest exact decimal form of v.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
