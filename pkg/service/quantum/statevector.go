package quantum

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/domain/model"
)

const (
	// SimulatorStatevector is reported in metadata for the exact simulator
	SimulatorStatevector = "statevector"

	numQubits = 8
	coreMask  = 0x0f
)

type statevector struct {
	opts *options
}

// New creates the 8-qubit statevector simulator
func New(opts ...Option) Simulator {
	return &statevector{opts: newOptions(opts)}
}

// buildCircuit encodes one risk factor per qubit, entangles correlated factors and
// applies fixed phase corrections before measurement.
func buildCircuit(angles []float64) *circuit {
	c := newCircuit(numQubits)

	for q := 0; q < numQubits; q++ {
		c.h(q)
	}
	for q, theta := range angles {
		c.ry(theta, q)
	}

	for _, pair := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {1, 4}, {4, 5}, {0, 6}, {6, 7}, {5, 7}, {3, 4}} {
		c.cx(pair[0], pair[1])
	}

	c.rz(math.Pi/4, 0)
	c.rz(math.Pi/6, 1)
	c.rz(math.Pi/8, 4)
	c.rz(math.Pi/5, 5)

	c.measureAll()
	return c
}

// isSuccess favors outcomes where most core qubits (0-3) measure zero, accepting a weaker
// core when the extended qubits (4-7) compensate.
func isSuccess(state int) bool {
	coreZeros := 4 - onesCount(state&coreMask)
	extZeros := 4 - onesCount((state>>4)&coreMask)
	return coreZeros >= 3 || (coreZeros >= 2 && extZeros >= 2)
}

func onesCount(v int) int {
	n := 0
	for ; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// bitstring renders state with qubit 0 as the rightmost character
func bitstring(state int) string {
	return fmt.Sprintf("%0*b", numQubits, state)
}

func (s *statevector) Run(ctx context.Context, vars model.ExtractedVariables) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "simulation cancelled")
	}

	angles := rotationAngles(vars, s.opts.profile)
	c := buildCircuit(angles)
	probs := c.probabilities()

	exact := 0.0
	cumulative := make([]float64, len(probs))
	acc := 0.0
	for state, p := range probs {
		if isSuccess(state) {
			exact += p
		}
		acc += p
		cumulative[state] = acc
	}

	rng := s.opts.rng()
	shots := s.opts.shots
	sampled := make(map[int]int)
	for range shots {
		r := rng.Float64() * acc
		state := sort.SearchFloat64s(cumulative, r)
		if state >= len(cumulative) {
			state = len(cumulative) - 1
		}
		// r == 0 can land on a leading zero-probability state
		for state < len(cumulative)-1 && probs[state] == 0 {
			state++
		}
		sampled[state]++
	}

	result := &Result{Counts: make(map[string]int, len(sampled))}
	successes := 0
	for state, count := range sampled {
		result.Counts[bitstring(state)] = count
		result.Distribution[state&coreMask] += float64(count) / float64(shots)
		if isSuccess(state) {
			successes += count
		}
	}
	result.SuccessProbability = round(float64(successes)/float64(shots), 4)

	named := make(map[string]float64, len(angles))
	for i, name := range AngleNames() {
		named[name] = round(angles[i], 4)
	}
	result.Metadata = model.QuantumMetadata{
		model.MetaSimulator:        SimulatorStatevector,
		model.MetaShots:            shots,
		model.MetaQubits:           numQubits,
		model.MetaCircuitDepth:     c.depth(),
		model.MetaRotationAngles:   named,
		model.MetaExactProbability: round(exact, 4),
	}

	return result, nil
}
