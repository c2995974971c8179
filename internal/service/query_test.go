package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-analyzer/internal/domain"
)

func TestSymptomFormValidate(t *testing.T) {
	valid := SymptomForm{MainSymptom: "headache", Severity: "mild", Duration: "2 days"}

	tests := []struct {
		name  string
		form  SymptomForm
		field string
	}{
		{"valid", valid, ""},
		{"short main symptom", SymptomForm{MainSymptom: " ab ", Severity: "mild", Duration: "1 day"}, "mainSymptom"},
		{"unknown severity", SymptomForm{MainSymptom: "headache", Severity: "extreme", Duration: "1 day"}, "severity"},
		{"missing duration", SymptomForm{MainSymptom: "headache", Severity: "severe"}, "duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestSymptomFormQuery(t *testing.T) {
	tests := []struct {
		form     SymptomForm
		expected string
	}{
		{
			SymptomForm{MainSymptom: "fever", AdditionalInfo: "and chills at night", Severity: "severe", Duration: "3 days"},
			"fever and chills at night. Severity: severe. Duration: 3 days",
		},
		{
			SymptomForm{MainSymptom: " headache ", Severity: "mild", Duration: "1 week"},
			"headache. Severity: mild. Duration: 1 week",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.form.Query())
	}
}
