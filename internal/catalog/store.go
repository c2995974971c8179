package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/symptom-analyzer/internal/domain"
)

// Store persists a catalog in a database.
type Store interface {
	// Load reads and validates the stored catalog.
	Load(ctx context.Context) (*Catalog, error)

	// Save replaces the stored catalog atomically.
	Save(ctx context.Context, c *Catalog) error

	// Close releases the store's resources.
	Close() error
}

// ErrEmptyStore is returned by Load when no catalog has been saved yet.
var ErrEmptyStore = errors.New("catalog store is empty")

const metaCurrency = "currency"

// specBuilder accumulates rows read from a store in position order.
type specBuilder struct {
	spec Spec
}

func newSpecBuilder() *specBuilder {
	return &specBuilder{spec: Spec{
		SeverityWeights: map[string]float64{},
		Medications:     map[string][]string{},
		Fees:            map[string]domain.ConsultationFees{},
	}}
}

func (b *specBuilder) meta(key, value string) {
	if key == metaCurrency {
		b.spec.Currency = value
	}
}

func (b *specBuilder) symptom(key string, weight *float64) {
	b.spec.Symptoms = append(b.spec.Symptoms, key)
	if weight != nil {
		b.spec.SeverityWeights[key] = *weight
	}
}

func (b *specBuilder) condition(name string, initial, followUp float64) {
	b.spec.Conditions = append(b.spec.Conditions, name)
	b.spec.Medications[name] = []string{}
	b.spec.Fees[name] = domain.ConsultationFees{Initial: initial, FollowUp: followUp}
}

func (b *specBuilder) medication(condition, advice string) {
	b.spec.Medications[condition] = append(b.spec.Medications[condition], advice)
}

func (b *specBuilder) build() (*Catalog, error) {
	if len(b.spec.Symptoms) == 0 && len(b.spec.Conditions) == 0 {
		return nil, ErrEmptyStore
	}
	c, err := New(b.spec)
	if err != nil {
		return nil, fmt.Errorf("stored catalog: %w", err)
	}
	return c, nil
}

// weightPtr returns nil for symptoms without an explicit weight so that the
// stored row keeps "missing" distinct from zero.
func weightPtr(c *Catalog, key string) *float64 {
	w, ok := c.weightSet[key]
	if !ok {
		return nil
	}
	return &w
}
