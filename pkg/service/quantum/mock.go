package quantum

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/domain/model"
)

// SimulatorMock is reported in metadata for the heuristic simulator
const SimulatorMock = "mock"

type mock struct {
	opts *options
}

// NewMock creates a heuristic simulator that needs no circuit evaluation. Without WithSeed the
// noise is seeded from the variables, so identical inputs give identical results.
func NewMock(opts ...Option) Simulator {
	return &mock{opts: newOptions(opts)}
}

func (m *mock) Run(ctx context.Context, vars model.ExtractedVariables) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "simulation cancelled")
	}

	seed := m.opts.seed
	if !m.opts.seeded {
		h := fnv.New64a()
		_, _ = fmt.Fprintf(h, "%+v", vars)
		seed = h.Sum64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	p := 0.65
	switch {
	case vars.Modal > 1_000_000_000:
		p -= 0.1
	case vars.Modal < 100_000_000:
		p -= 0.05
	}
	if vars.Sektor == "Teknologi" || vars.Sektor == "F&B" {
		p += 0.05
	}
	if strings.Contains(strings.ToLower(vars.Lokasi), "jakarta") {
		p += 0.03
	}
	p = clip(p+rng.NormFloat64()*0.05, 0.3, 0.95)

	result := &Result{
		SuccessProbability: round(p, 4),
		Counts:             map[string]int{SimulatorMock: m.opts.shots},
		Metadata: model.QuantumMetadata{
			model.MetaSimulator:    SimulatorMock,
			model.MetaShots:        m.opts.shots,
			model.MetaQubits:       4,
			model.MetaCircuitDepth: 6,
			model.MetaRotationAngles: map[string]float64{
				AngleModal:  0.5,
				AngleSektor: 0.3,
				AngleLokasi: 0.2,
				AngleTahun:  0.4,
			},
		},
	}
	for i := range result.Distribution {
		result.Distribution[i] = rng.Float64()
	}

	return result, nil
}
