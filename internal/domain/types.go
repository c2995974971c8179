// Package domain contains the core entities of symptom analysis: urgency tiers,
// presence vectors, classifier predictions and the analysis result handed to
// the form and chat front ends.
//
// Results are informational self-assessment output. They are not a diagnosis.
package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Urgency is the coarse tier derived from the severity score.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Sentinel errors shared across packages
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidUrgency = errors.New("invalid urgency tier")
	ErrCatalogInvalid = errors.New("invalid catalog")
)

// IsValid reports whether u is one of the three tiers.
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tier.
func (u Urgency) String() string {
	return string(u)
}

// Label returns the upper-case label used in chat transcripts.
func (u Urgency) Label() string {
	return strings.ToUpper(string(u))
}

// ParseUrgency converts a case-insensitive tier name.
func ParseUrgency(s string) (Urgency, error) {
	u := Urgency(strings.ToLower(strings.TrimSpace(s)))
	if !u.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidUrgency, s)
	}
	return u, nil
}

// LogFields returns structured logging fields for the tier.
func (u Urgency) LogFields() map[string]any {
	return map[string]any{
		"urgency":  string(u),
		"is_valid": u.IsValid(),
	}
}

// PresenceVector marks which vocabulary symptoms were detected. Index i
// corresponds to the i-th symptom key of the catalog; values are 0 or 1.
type PresenceVector []float64

// Count returns the number of detected symptoms.
func (v PresenceVector) Count() int {
	n := 0
	for _, x := range v {
		if x == 1 {
			n++
		}
	}
	return n
}

// Prediction is the classifier's output for one presence vector.
type Prediction struct {
	Index        int       `json:"index"`
	Condition    string    `json:"condition"`
	Probability  float64   `json:"probability"`
	Distribution []float64 `json:"distribution,omitempty"`
}

// ConsultationFees holds the fee pair for a condition.
type ConsultationFees struct {
	Initial  float64 `json:"initial" yaml:"initial"`
	FollowUp float64 `json:"followUp" yaml:"follow_up"`
}

// Recommendation is the composer's output for a condition and tier.
type Recommendation struct {
	Medications     []string         `json:"medications"`
	Recommendations []string         `json:"recommendations"`
	Fees            ConsultationFees `json:"consultationFees"`
}

// AnalysisResult is the structured outcome of one analysis call.
type AnalysisResult struct {
	Condition        string           `json:"condition"`
	Probability      float64          `json:"probability"`
	Urgency          Urgency          `json:"urgency"`
	Medications      []string         `json:"medications"`
	Recommendations  []string         `json:"recommendations"`
	ConsultationFees ConsultationFees `json:"consultationFees"`
	SeverityScore    float64          `json:"severityScore"`
	DetectedSymptoms []string         `json:"detectedSymptoms"`
	Currency         string           `json:"currency"`
}

// Clone returns a deep copy so cached results can be handed out safely.
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Medications = slices.Clone(r.Medications)
	out.Recommendations = slices.Clone(r.Recommendations)
	out.DetectedSymptoms = slices.Clone(r.DetectedSymptoms)
	return &out
}

// LogFields returns structured logging fields for the result. The free text
// that produced it is never included.
func (r *AnalysisResult) LogFields() map[string]any {
	return map[string]any{
		"condition":      r.Condition,
		"probability":    r.Probability,
		"urgency":        string(r.Urgency),
		"severity_score": r.SeverityScore,
		"symptom_count":  len(r.DetectedSymptoms),
	}
}
