package risk

import (
	"math"
	"math/rand/v2"

	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/model/config"
	"github.com/qrisq/qrisq/pkg/domain/types"
)

// Engine turns extracted variables and simulation output into a heatmap, categorized
// risks and recommendations.
type Engine struct {
	profile *config.Profile
}

// Option is a functional option for Engine
type Option func(*Engine)

// WithProfile replaces the default risk profile
func WithProfile(profile *config.Profile) Option {
	return func(e *Engine) {
		if profile != nil {
			e.profile = profile
		}
	}
}

// New creates a risk engine
func New(opts ...Option) *Engine {
	e := &Engine{profile: config.DefaultProfile()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assessment is the output of Engine.Assess
type Assessment struct {
	Heatmap         model.RiskHeatmap
	Categories      model.RiskCategories
	Recommendations []string
}

// Assess runs the heatmap, categorization and recommendation steps
func (e *Engine) Assess(vars model.ExtractedVariables, successProbability float64, distribution []float64) *Assessment {
	categories := e.Categorize(vars)
	return &Assessment{
		Heatmap:         e.Heatmap(vars, distribution),
		Categories:      categories,
		Recommendations: e.Recommend(vars, categories, successProbability),
	}
}

// Heatmap scales each factor's base risk by the simulated outcome distribution. The noise is
// seeded from the capital amount, so the same variables always produce the same heatmap.
func (e *Engine) Heatmap(vars model.ExtractedVariables, distribution []float64) model.RiskHeatmap {
	seed := uint64(int64(vars.Modal) % 1000)
	rng := rand.New(rand.NewPCG(seed, seed))

	var heatmap model.RiskHeatmap
	for i, factor := range types.AllRiskFactors() {
		base := e.baseRisk(factor, vars)
		for j := range types.AllImpactLevels() {
			q := 0.0
			if n := len(distribution); n > 0 {
				q = distribution[min(3*i+j, n-1)]
			}
			v := base*(0.7+q*0.6) + rng.NormFloat64()*0.05
			heatmap[i][j] = round(clip(v, 0, 1), 3)
		}
	}
	return heatmap
}

func (e *Engine) baseRisk(factor types.RiskFactor, vars model.ExtractedVariables) float64 {
	switch factor {
	case types.RiskFactorModal:
		switch {
		case vars.Modal > 1_000_000_000:
			return 0.7
		case vars.Modal > 500_000_000:
			return 0.5
		default:
			return 0.3
		}
	case types.RiskFactorSektor:
		if e.profile.Sector(vars.Sektor).HighRisk {
			return 0.6
		}
		return 0.4
	case types.RiskFactorLokasi:
		if e.profile.IsHub(vars.Lokasi) {
			return 0.3
		}
		return 0.5
	case types.RiskFactorWaktu:
		return clip(0.3+0.1*float64(vars.Tahun-e.profile.BaseYear), 0, 0.7)
	default:
		return 0.5
	}
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
