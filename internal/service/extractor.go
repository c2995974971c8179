package service

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/symptom-analyzer/internal/catalog"
	"github.com/symptom-analyzer/internal/domain"
)

// SymptomExtractor turns free text into a presence vector by plain substring
// containment of each symptom phrase. There is no tokenization, so a phrase
// inside a longer word still matches.
type SymptomExtractor struct {
	keys    []string
	phrases []string
}

// NewSymptomExtractor precomputes the search phrase of every symptom key:
// lower case, every underscore replaced by a space.
func NewSymptomExtractor(c *catalog.Catalog) *SymptomExtractor {
	keys := c.Symptoms()
	phrases := make([]string, len(keys))
	for i, key := range keys {
		phrases[i] = SymptomPhrase(key)
	}
	return &SymptomExtractor{keys: keys, phrases: phrases}
}

// SymptomPhrase returns the text a symptom key is matched by.
func SymptomPhrase(key string) string {
	return lower(strings.ReplaceAll(key, "_", " "))
}

// Extract returns a fresh vector of length N with 1 where the phrase occurs.
func (e *SymptomExtractor) Extract(text string) domain.PresenceVector {
	vec := make(domain.PresenceVector, len(e.phrases))
	if text == "" {
		return vec
	}

	lowered := lower(text)
	for i, phrase := range e.phrases {
		if strings.Contains(lowered, phrase) {
			vec[i] = 1
		}
	}
	return vec
}

// Detected returns the keys set in vec, in vocabulary order.
func (e *SymptomExtractor) Detected(vec domain.PresenceVector) []string {
	out := []string{}
	for i, v := range vec {
		if v == 1 && i < len(e.keys) {
			out = append(out, e.keys[i])
		}
	}
	return out
}

// lower builds a Caser per call; cases.Caser keeps state and is not safe for
// concurrent use.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
