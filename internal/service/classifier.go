package service

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/symptom-analyzer/internal/catalog"
	"github.com/symptom-analyzer/internal/domain"
)

// Default classifier shape and initialization.
const (
	DefaultStdDev = 0.1
)

// DefaultHiddenLayers is the hidden layer widths of the reference network.
var DefaultHiddenLayers = []int{128, 64}

// ClassifierOption customizes a NeuralClassifier.
type ClassifierOption func(*NeuralClassifier)

// WithParamInitializer replaces the normal-distribution initializer.
func WithParamInitializer(init ParamInitializer) ClassifierOption {
	return func(c *NeuralClassifier) {
		c.init = init
	}
}

// NeuralClassifier maps presence vectors to a distribution over the catalog's
// conditions. The network is never trained: parameters are random draws,
// built on first use and reused for the classifier's lifetime.
type NeuralClassifier struct {
	logger     *logrus.Logger
	catalog    *catalog.Catalog
	hidden     []int
	stdDev     float64
	init       ParamInitializer
	mu         sync.Mutex
	model      atomic.Pointer[Network]
	buildCount atomic.Int32
}

// NewNeuralClassifier creates a classifier; the model is built lazily.
func NewNeuralClassifier(logger *logrus.Logger, c *catalog.Catalog, cfg domain.ClassifierConfig, opts ...ClassifierOption) *NeuralClassifier {
	hidden := cfg.HiddenLayers
	if len(hidden) == 0 {
		hidden = DefaultHiddenLayers
	}
	stdDev := cfg.StdDev
	if stdDev == 0 {
		stdDev = DefaultStdDev
	}

	nc := &NeuralClassifier{
		logger:  logger,
		catalog: c,
		hidden:  append([]int(nil), hidden...),
		stdDev:  stdDev,
	}
	for _, opt := range opts {
		opt(nc)
	}
	if nc.init == nil && validStdDev(stdDev) {
		nc.init = NormalInitializer(cfg.Seed, stdDev)
	}
	return nc
}

func validStdDev(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Warmup builds the model now instead of on the first prediction.
func (c *NeuralClassifier) Warmup() error {
	_, err := c.network()
	return err
}

// network returns the memoized model, building it at most once. A failed
// build is not cached; the next call tries again.
func (c *NeuralClassifier) network() (*Network, error) {
	if net := c.model.Load(); net != nil {
		return net, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if net := c.model.Load(); net != nil {
		return net, nil
	}

	if c.init == nil {
		return nil, &domain.ModelInitializationError{Reason: fmt.Sprintf("invalid standard deviation %v", c.stdDev)}
	}

	net, err := BuildNetwork(c.catalog.SymptomCount(), c.hidden, c.catalog.ConditionCount(), c.init)
	if err != nil {
		c.logger.WithError(err).Error("Classifier model initialization failed")
		return nil, &domain.ModelInitializationError{Reason: "building network", Err: err}
	}

	c.buildCount.Add(1)
	c.model.Store(net)
	c.logger.WithFields(logrus.Fields{
		"inputs":        net.Inputs(),
		"hidden_layers": c.hidden,
		"outputs":       net.Outputs(),
		"fingerprint":   net.Fingerprint(),
	}).Info("Classifier model initialized")

	return net, nil
}

// Distribution returns one probability per condition, summing to 1.
func (c *NeuralClassifier) Distribution(vec domain.PresenceVector) ([]float64, error) {
	if len(vec) != c.catalog.SymptomCount() {
		return nil, domain.NewValidationError("vector",
			fmt.Sprintf("expected %d values, got %d", c.catalog.SymptomCount(), len(vec)), len(vec))
	}

	net, err := c.network()
	if err != nil {
		return nil, err
	}
	return net.Forward(vec)
}

// Predict selects the most probable condition, the first one on ties.
func (c *NeuralClassifier) Predict(vec domain.PresenceVector) (domain.Prediction, error) {
	dist, err := c.Distribution(vec)
	if err != nil {
		return domain.Prediction{}, err
	}

	idx := argmax(dist)
	condition, err := c.catalog.Condition(idx)
	if err != nil {
		return domain.Prediction{}, err
	}

	return domain.Prediction{
		Index:        idx,
		Condition:    condition,
		Probability:  dist[idx],
		Distribution: dist,
	}, nil
}

// Fingerprint identifies the model parameters, building the model if needed.
func (c *NeuralClassifier) Fingerprint() (string, error) {
	net, err := c.network()
	if err != nil {
		return "", err
	}
	return net.Fingerprint(), nil
}
