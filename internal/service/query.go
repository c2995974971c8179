package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/symptom-analyzer/internal/domain"
)

// MinMainSymptomLength is the shortest accepted main symptom description.
const MinMainSymptomLength = 3

// Severity values offered by the symptom form.
var formSeverities = []string{"mild", "moderate", "severe"}

// SymptomForm is the structured symptom form. It is folded into one string
// before analysis; the analyzer only ever sees text.
type SymptomForm struct {
	MainSymptom    string `json:"mainSymptom"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
	Severity       string `json:"severity"`
	Duration       string `json:"duration"`
}

// Validate checks the form fields.
func (f SymptomForm) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(f.MainSymptom)) < MinMainSymptomLength {
		return domain.NewValidationError("mainSymptom",
			fmt.Sprintf("must be at least %d characters", MinMainSymptomLength), f.MainSymptom)
	}
	valid := false
	for _, s := range formSeverities {
		if f.Severity == s {
			valid = true
			break
		}
	}
	if !valid {
		return domain.NewValidationError("severity", "must be mild, moderate or severe", f.Severity)
	}
	if strings.TrimSpace(f.Duration) == "" {
		return domain.NewValidationError("duration", "is required", f.Duration)
	}
	return nil
}

// Query folds the form into analysis text:
// "<main> <additional>. Severity: <severity>. Duration: <duration>".
func (f SymptomForm) Query() string {
	head := strings.TrimSpace(f.MainSymptom)
	if extra := strings.TrimSpace(f.AdditionalInfo); extra != "" {
		head += " " + extra
	}
	return fmt.Sprintf("%s. Severity: %s. Duration: %s", head, f.Severity, strings.TrimSpace(f.Duration))
}
