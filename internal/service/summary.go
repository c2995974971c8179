package service

import (
	"fmt"
	"strings"

	"github.com/symptom-analyzer/internal/domain"
)

// Chat replies.
const (
	ChatReviewNotice = "Thank you for your message. Daktari will review your case shortly."
	ChatErrorReply   = "Sorry, there was an error analyzing your symptoms. Daktari will review your case directly."
	greetingMarker   = "describe your symptoms"
)

// Greeting is the first chat reply to a user; an empty name becomes "patient".
func Greeting(username string) string {
	name := strings.TrimSpace(username)
	if name == "" {
		name = "patient"
	}
	return fmt.Sprintf("hello %s, %s.", name, greetingMarker)
}

// FormatSummary renders a result as a plain-text chat reply. Medications are
// listed once; the remaining recommendations follow under their own heading.
func FormatSummary(r *domain.AnalysisResult) string {
	var b strings.Builder

	b.WriteString("Based on your symptoms, our doctor's analysis suggests:\n\n")
	fmt.Fprintf(&b, "Condition: %s\n", r.Condition)
	fmt.Fprintf(&b, "Confidence: %.1f%%\n", r.Probability*100)
	fmt.Fprintf(&b, "Urgency: %s\n\n", r.Urgency.Label())

	b.WriteString("Recommended Medications:\n")
	meds := make(map[string]struct{}, len(r.Medications))
	for _, m := range r.Medications {
		meds[m] = struct{}{}
		fmt.Fprintf(&b, "• %s\n", m)
	}

	b.WriteString("\nOther Recommendations:\n")
	for _, rec := range r.Recommendations {
		if _, ok := meds[rec]; ok {
			continue
		}
		fmt.Fprintf(&b, "• %s\n", rec)
	}

	currency := r.Currency
	if currency == "" {
		currency = "KSH"
	}
	b.WriteString("\nConsultation Fees:\n")
	fmt.Fprintf(&b, "• Initial consultation: %s %s\n", currency, FormatAmount(r.ConsultationFees.Initial))
	fmt.Fprintf(&b, "• Follow-up visit: %s %s\n\n", currency, FormatAmount(r.ConsultationFees.FollowUp))

	b.WriteString("If symptoms persist or worsen, please schedule a consultation with one of our doctors.")
	return b.String()
}
