package quantum

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/model/config"
)

const (
	// DefaultShots is the number of measurements sampled per run
	DefaultShots = 1024

	// DistributionBins is the number of outcome bins exposed to the risk engine
	DistributionBins = 16
)

// Simulator estimates a success probability from extracted variables
type Simulator interface {
	Run(ctx context.Context, vars model.ExtractedVariables) (*Result, error)
}

// Result is the outcome of one simulation run
type Result struct {
	SuccessProbability float64
	Counts             map[string]int
	Distribution       [DistributionBins]float64
	Metadata           model.QuantumMetadata
}

type options struct {
	shots   int
	seed    uint64
	seeded  bool
	profile *config.Profile
}

// Option is a functional option for simulators
type Option func(*options)

// WithShots sets the number of measurement shots. Non-positive values are ignored.
func WithShots(shots int) Option {
	return func(o *options) {
		if shots > 0 {
			o.shots = shots
		}
	}
}

// WithSeed makes sampling deterministic
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithProfile replaces the default risk profile used for rotation angles
func WithProfile(profile *config.Profile) Option {
	return func(o *options) {
		if profile != nil {
			o.profile = profile
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		shots:   DefaultShots,
		profile: config.DefaultProfile(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) rng() *rand.Rand {
	seed := o.seed
	if !o.seeded {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
