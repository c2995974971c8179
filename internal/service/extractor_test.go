package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-analyzer/internal/catalog"
)

func TestExtractVectorShape(t *testing.T) {
	extractor := NewSymptomExtractor(catalog.Default())

	inputs := []string{
		"",
		"I feel fine",
		"fever fever fever",
		"CHEST PAIN and Shortness Of Breath",
		strings.Repeat("headache ", 500),
		"ünïcödé tëxt with nausea",
	}

	for _, input := range inputs {
		vec := extractor.Extract(input)
		require.Len(t, vec, 30)
		for _, v := range vec {
			assert.True(t, v == 0 || v == 1, "value %v out of {0,1}", v)
		}
	}
}

func TestExtractEmptyText(t *testing.T) {
	extractor := NewSymptomExtractor(catalog.Default())
	vec := extractor.Extract("")

	assert.Equal(t, 0, vec.Count())
	assert.Empty(t, extractor.Detected(vec))
}

func TestExtractEveryPhraseVerbatim(t *testing.T) {
	c := catalog.Default()
	extractor := NewSymptomExtractor(c)

	for i, key := range c.Symptoms() {
		t.Run(key, func(t *testing.T) {
			text := "patient reports " + strings.ReplaceAll(key, "_", " ") + " since yesterday"
			vec := extractor.Extract(text)
			assert.Equal(t, 1.0, vec[i])
		})
	}
}

func TestExtractMatching(t *testing.T) {
	extractor := NewSymptomExtractor(catalog.Default())

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "severe fever scenario",
			text:     "I have a severe fever and difficulty breathing for 3 days",
			expected: []string{"fever", "difficulty_breathing"},
		},
		{
			name:     "case insensitive",
			text:     "SHORTNESS OF BREATH, Chest Pain",
			expected: []string{"chest_pain", "shortness_of_breath"},
		},
		{
			name:     "phrase inside a longer word",
			text:     "feverish after a car crash",
			expected: []string{"fever", "rash"},
		},
		{
			name:     "underscore spelling does not match",
			text:     "runny_nose",
			expected: []string{},
		},
		{
			name:     "no symptoms",
			text:     "just checking in",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec := extractor.Extract(tt.text)
			assert.Equal(t, tt.expected, extractor.Detected(vec))
		})
	}
}

func TestSymptomPhrase(t *testing.T) {
	assert.Equal(t, "shortness of breath", SymptomPhrase("shortness_of_breath"))
	assert.Equal(t, "fever", SymptomPhrase("Fever"))
}

func TestExtractReturnsFreshVector(t *testing.T) {
	extractor := NewSymptomExtractor(catalog.Default())

	first := extractor.Extract("fever")
	first[0] = 0
	second := extractor.Extract("fever")
	assert.Equal(t, 1.0, second[0])
}
