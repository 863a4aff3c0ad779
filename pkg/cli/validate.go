package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/cli/config"
	"github.com/qrisq/qrisq/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var profilePath string

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a risk profile file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "profile",
				Aliases:     []string{"p"},
				Usage:       "Risk profile TOML file",
				Required:    true,
				Sources:     cli.EnvVars("QRISQ_PROFILE"),
				Destination: &profilePath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			profile, err := config.LoadProfile(profilePath)
			if err != nil {
				return goerr.Wrap(err, "risk profile validation failed")
			}

			logging.Default().Info("Risk profile validation passed",
				"path", profilePath,
				"base_year", profile.BaseYear,
				"sectors", len(profile.Sectors),
				"locations", len(profile.Locations),
				"city_tiers", len(profile.CityTiers),
			)
			for _, s := range profile.Sectors {
				logging.Default().Info("Sector validated",
					"name", s.Name,
					"keywords", len(s.Keywords),
					"angle_risk", s.AngleRisk,
					"high_risk", s.HighRisk,
				)
			}
			return nil
		},
	}
}
