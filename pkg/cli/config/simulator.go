package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/domain/model/config"
	"github.com/qrisq/qrisq/pkg/service/quantum"
	"github.com/urfave/cli/v3"
)

// Simulator holds CLI flags for the circuit simulator
type Simulator struct {
	shots int
	mock  bool
	seed  uint64
}

// Flags returns CLI flags for simulator configuration
func (s *Simulator) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "shots",
			Usage:       "Number of measurement shots per analysis",
			Value:       quantum.DefaultShots,
			Category:    "Simulator",
			Sources:     cli.EnvVars("QRISQ_QUANTUM_SHOTS"),
			Destination: &s.shots,
		},
		&cli.BoolFlag{
			Name:        "mock-simulator",
			Usage:       "Use the heuristic simulator instead of the statevector circuit",
			Category:    "Simulator",
			Sources:     cli.EnvVars("QRISQ_USE_MOCK_SIMULATOR"),
			Destination: &s.mock,
		},
		&cli.Uint64Flag{
			Name:        "seed",
			Usage:       "Sampling seed for reproducible results (0 picks a random seed per run)",
			Category:    "Simulator",
			Sources:     cli.EnvVars("QRISQ_QUANTUM_SEED"),
			Destination: &s.seed,
		},
	}
}

// LogValue implements slog.LogValuer
func (s Simulator) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("shots", s.shots),
		slog.Bool("mock", s.mock),
		slog.Uint64("seed", s.seed),
	)
}

// Configure builds the simulator for the given risk profile
func (s *Simulator) Configure(profile *config.Profile) (quantum.Simulator, error) {
	if s.shots <= 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "shots must be positive",
			goerr.V(FlagKey, "shots"), goerr.V(ValueKey, s.shots))
	}

	opts := []quantum.Option{
		quantum.WithShots(s.shots),
		quantum.WithProfile(profile),
	}
	if s.seed != 0 {
		opts = append(opts, quantum.WithSeed(s.seed))
	}

	if s.mock {
		return quantum.NewMock(opts...), nil
	}
	return quantum.New(opts...), nil
}
