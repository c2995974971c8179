package service

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ParamInitializer fills one parameter block. Weight blocks are rows x cols
// (inputs x outputs); bias blocks are 1 x cols.
type ParamInitializer func(layer, rows, cols int) ([]float64, error)

// NormalInitializer draws every parameter from Normal(0, stddev). A zero seed
// draws a seed from the clock, so each process gets different weights.
func NormalInitializer(seed uint64, stddev float64) ParamInitializer {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(_, rows, cols int) ([]float64, error) {
		data := make([]float64, rows*cols)
		for i := range data {
			data[i] = rng.NormFloat64() * stddev
		}
		return data, nil
	}
}

type activation int

const (
	activationReLU activation = iota
	activationSoftmax
)

type denseLayer struct {
	weights *mat.Dense
	bias    *mat.VecDense
	act     activation
}

// Network is a feed-forward stack of dense layers: ReLU on every hidden
// layer, softmax on the output. It is read-only once built.
type Network struct {
	layers  []denseLayer
	inputs  int
	outputs int
}

// BuildNetwork allocates a network of shape inputs -> hidden... -> outputs.
func BuildNetwork(inputs int, hidden []int, outputs int, init ParamInitializer) (*Network, error) {
	if inputs <= 0 || outputs <= 0 {
		return nil, fmt.Errorf("invalid network shape %d -> %d", inputs, outputs)
	}
	if init == nil {
		return nil, fmt.Errorf("parameter initializer is required")
	}

	sizes := append(append([]int{inputs}, hidden...), outputs)
	net := &Network{inputs: inputs, outputs: outputs}

	for l := 0; l < len(sizes)-1; l++ {
		in, out := sizes[l], sizes[l+1]
		if out <= 0 {
			return nil, fmt.Errorf("layer %d has non-positive width %d", l+1, out)
		}

		w, err := initBlock(init, l, in, out)
		if err != nil {
			return nil, fmt.Errorf("layer %d weights: %w", l+1, err)
		}
		b, err := initBlock(init, l, 1, out)
		if err != nil {
			return nil, fmt.Errorf("layer %d biases: %w", l+1, err)
		}

		act := activationReLU
		if l == len(sizes)-2 {
			act = activationSoftmax
		}
		net.layers = append(net.layers, denseLayer{
			weights: mat.NewDense(in, out, w),
			bias:    mat.NewVecDense(out, b),
			act:     act,
		})
	}
	return net, nil
}

func initBlock(init ParamInitializer, layer, rows, cols int) ([]float64, error) {
	data, err := init(layer, rows, cols)
	if err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("initializer returned %d values, want %d", len(data), rows*cols)
	}
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("initializer returned non-finite value %v", v)
		}
	}
	return data, nil
}

// Inputs returns the expected input width.
func (n *Network) Inputs() int { return n.inputs }

// Outputs returns the output width.
func (n *Network) Outputs() int { return n.outputs }

// Forward runs inference and returns a probability distribution.
func (n *Network) Forward(input []float64) ([]float64, error) {
	if len(input) != n.inputs {
		return nil, fmt.Errorf("input has %d values, want %d", len(input), n.inputs)
	}

	x := mat.NewDense(1, n.inputs, append([]float64(nil), input...))
	for _, layer := range n.layers {
		_, out := layer.weights.Dims()
		var z mat.Dense
		z.Mul(x, layer.weights)

		row := z.RawRowView(0)
		floats.Add(row, layer.bias.RawVector().Data)

		switch layer.act {
		case activationReLU:
			for i, v := range row {
				if v < 0 {
					row[i] = 0
				}
			}
		case activationSoftmax:
			softmax(row)
		}
		x = mat.NewDense(1, out, row)
	}
	return append([]float64(nil), x.RawRowView(0)...), nil
}

// softmax normalizes v in place, shifted by its maximum for stability.
func softmax(v []float64) {
	maxVal := floats.Max(v)
	for i := range v {
		v[i] = math.Exp(v[i] - maxVal)
	}
	floats.Scale(1/floats.Sum(v), v)
}

// Fingerprint is a digest of every parameter, stable for a built network.
func (n *Network) Fingerprint() string {
	h := sha256.New()
	var buf [8]byte
	write := func(data []float64) {
		for _, v := range data {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	for _, layer := range n.layers {
		r, c := layer.weights.Dims()
		for i := 0; i < r; i++ {
			write(layer.weights.RawRowView(i)[:c])
		}
		write(layer.bias.RawVector().Data)
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}

// argmax returns the first index of the largest value.
func argmax(v []float64) int {
	return floats.MaxIdx(v)
}
