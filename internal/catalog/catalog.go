// Package catalog holds the vocabulary tables that drive symptom analysis:
// symptom keys, condition names, severity weights, medication advice and
// consultation fees. A Catalog is validated once at construction and is
// read-only afterwards, so it can be shared freely between goroutines.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/symptom-analyzer/internal/domain"
)

// DefaultCurrency is the display unit used when a catalog file leaves it blank.
const DefaultCurrency = "KSH"

// Spec is the serializable form of a catalog. Symptoms and Conditions are
// ordered: position defines vector and classifier output indices.
type Spec struct {
	Currency        string                             `json:"currency" yaml:"currency"`
	Symptoms        []string                           `json:"symptoms" yaml:"symptoms"`
	Conditions      []string                           `json:"conditions" yaml:"conditions"`
	SeverityWeights map[string]float64                 `json:"severityWeights" yaml:"severity_weights"`
	Medications     map[string][]string                `json:"medications" yaml:"medications"`
	Fees            map[string]domain.ConsultationFees `json:"fees" yaml:"fees"`
}

// Catalog is an immutable, validated set of vocabulary tables.
type Catalog struct {
	currency       string
	symptoms       []string
	conditions     []string
	weights        []float64
	weightSet      map[string]float64
	medications    map[string][]string
	fees           map[string]domain.ConsultationFees
	conditionIndex map[string]int
	version        string
}

// New validates spec and builds a Catalog from a private copy of it.
func New(spec Spec) (*Catalog, error) {
	if err := Validate(spec); err != nil {
		return nil, err
	}

	c := &Catalog{
		currency:       strings.TrimSpace(spec.Currency),
		symptoms:       append([]string(nil), spec.Symptoms...),
		conditions:     append([]string(nil), spec.Conditions...),
		weights:        make([]float64, len(spec.Symptoms)),
		weightSet:      make(map[string]float64, len(spec.SeverityWeights)),
		medications:    make(map[string][]string, len(spec.Conditions)),
		fees:           make(map[string]domain.ConsultationFees, len(spec.Conditions)),
		conditionIndex: make(map[string]int, len(spec.Conditions)),
	}
	if c.currency == "" {
		c.currency = DefaultCurrency
	}

	for i, key := range c.symptoms {
		if w, ok := spec.SeverityWeights[key]; ok {
			c.weights[i] = w
			c.weightSet[key] = w
		}
	}
	for i, name := range c.conditions {
		c.conditionIndex[name] = i
		c.medications[name] = append([]string{}, spec.Medications[name]...)
		c.fees[name] = spec.Fees[name]
	}

	version, err := digest(c.Spec())
	if err != nil {
		return nil, fmt.Errorf("failed to compute catalog version: %w", err)
	}
	c.version = version

	return c, nil
}

// MustNew is New for package-level tables known to be valid.
func MustNew(spec Spec) *Catalog {
	c, err := New(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks that the vocabularies are unique and that every table is
// total over them. All problems are reported together.
func Validate(spec Spec) error {
	var errs []error

	if len(spec.Symptoms) == 0 {
		errs = append(errs, errors.New("symptom vocabulary is empty"))
	}
	if len(spec.Conditions) == 0 {
		errs = append(errs, errors.New("condition vocabulary is empty"))
	}

	symptoms, err := indexKeys("symptom", spec.Symptoms)
	errs = append(errs, err...)
	conditions, err := indexKeys("condition", spec.Conditions)
	errs = append(errs, err...)

	for key, w := range spec.SeverityWeights {
		if _, ok := symptoms[key]; !ok {
			errs = append(errs, fmt.Errorf("severity weight for unknown symptom %q", key))
			continue
		}
		if math.IsNaN(w) || w < 0 || w > 1 {
			errs = append(errs, fmt.Errorf("severity weight for %q must be in [0,1], got %v", key, w))
		}
	}

	for name := range spec.Medications {
		if _, ok := conditions[name]; !ok {
			errs = append(errs, fmt.Errorf("medications for unknown condition %q", name))
		}
	}
	for name := range spec.Fees {
		if _, ok := conditions[name]; !ok {
			errs = append(errs, fmt.Errorf("fees for unknown condition %q", name))
		}
	}

	for _, name := range spec.Conditions {
		if _, ok := spec.Medications[name]; !ok {
			errs = append(errs, fmt.Errorf("condition %q has no medication entry", name))
		}
		fee, ok := spec.Fees[name]
		if !ok {
			errs = append(errs, fmt.Errorf("condition %q has no fee entry", name))
			continue
		}
		if !validAmount(fee.Initial) || !validAmount(fee.FollowUp) {
			errs = append(errs, fmt.Errorf("fees for %q must be finite and non-negative", name))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrCatalogInvalid, errors.Join(errs...))
}

func indexKeys(kind string, keys []string) (map[string]int, []error) {
	var errs []error
	seen := make(map[string]int, len(keys))
	for i, k := range keys {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, fmt.Errorf("%s at position %d is blank", kind, i))
			continue
		}
		if prev, ok := seen[k]; ok {
			errs = append(errs, fmt.Errorf("duplicate %s %q at positions %d and %d", kind, k, prev, i))
			continue
		}
		seen[k] = i
	}
	return seen, errs
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func digest(spec Spec) (string, error) {
	// encoding/json sorts map keys, so the encoding is canonical
	data, err := json.Marshal(spec)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8]), nil
}

// Currency returns the display unit prefixed to fee amounts.
func (c *Catalog) Currency() string { return c.currency }

// Version is a short digest of the catalog contents.
func (c *Catalog) Version() string { return c.version }

// SymptomCount returns N, the presence vector length.
func (c *Catalog) SymptomCount() int { return len(c.symptoms) }

// ConditionCount returns M, the classifier output width.
func (c *Catalog) ConditionCount() int { return len(c.conditions) }

// Symptoms returns a copy of the ordered symptom vocabulary.
func (c *Catalog) Symptoms() []string { return append([]string(nil), c.symptoms...) }

// Conditions returns a copy of the ordered condition vocabulary.
func (c *Catalog) Conditions() []string { return append([]string(nil), c.conditions...) }

// Symptom returns the key at vector index i.
func (c *Catalog) Symptom(i int) string { return c.symptoms[i] }

// Condition returns the condition name for classifier output index i.
func (c *Catalog) Condition(i int) (string, error) {
	if i < 0 || i >= len(c.conditions) {
		return "", fmt.Errorf("condition index %d out of range [0,%d)", i, len(c.conditions))
	}
	return c.conditions[i], nil
}

// ConditionIndex returns the output index of a condition.
func (c *Catalog) ConditionIndex(name string) (int, bool) {
	i, ok := c.conditionIndex[name]
	return i, ok
}

// Weight returns the severity weight of a symptom key, 0 when absent.
func (c *Catalog) Weight(key string) float64 { return c.weightSet[key] }

// Weights returns the weights index-aligned with Symptoms.
func (c *Catalog) Weights() []float64 { return append([]float64(nil), c.weights...) }

// Medications returns a copy of the advice list for a condition.
func (c *Catalog) Medications(condition string) ([]string, bool) {
	meds, ok := c.medications[condition]
	if !ok {
		return nil, false
	}
	return append([]string{}, meds...), true
}

// Fees returns the fee pair for a condition.
func (c *Catalog) Fees(condition string) (domain.ConsultationFees, bool) {
	f, ok := c.fees[condition]
	return f, ok
}

// Spec exports the catalog back into its serializable form.
func (c *Catalog) Spec() Spec {
	s := Spec{
		Currency:        c.currency,
		Symptoms:        append([]string(nil), c.symptoms...),
		Conditions:      append([]string(nil), c.conditions...),
		SeverityWeights: make(map[string]float64, len(c.weightSet)),
		Medications:     make(map[string][]string, len(c.medications)),
		Fees:            make(map[string]domain.ConsultationFees, len(c.fees)),
	}
	for k, w := range c.weightSet {
		s.SeverityWeights[k] = w
	}
	for k, m := range c.medications {
		s.Medications[k] = append([]string{}, m...)
	}
	for k, f := range c.fees {
		s.Fees[k] = f
	}
	return s
}

// LogFields returns structured logging fields describing the catalog.
func (c *Catalog) LogFields() map[string]any {
	return map[string]any{
		"catalog_version": c.version,
		"symptom_count":   len(c.symptoms),
		"condition_count": len(c.conditions),
		"currency":        c.currency,
	}
}
