package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/domain/model/config"
	"github.com/qrisq/qrisq/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Profile holds the risk profile file flag
type Profile struct {
	path string
}

// Flags returns CLI flags for risk profile configuration
func (p *Profile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "profile",
			Aliases:     []string{"p"},
			Usage:       "Risk profile TOML file (built-in profile when omitted)",
			Category:    "Risk",
			Sources:     cli.EnvVars("QRISQ_PROFILE"),
			Destination: &p.path,
		},
	}
}

func (p *Profile) Path() string {
	return p.path
}

// Configure loads the risk profile file, or the built-in profile when no path is set
func (p *Profile) Configure() (*config.Profile, error) {
	if p.path == "" {
		return config.DefaultProfile(), nil
	}

	profile, err := LoadProfile(p.path)
	if err != nil {
		return nil, err
	}

	logging.Default().Info("Loaded risk profile",
		"path", p.path,
		"sectors", len(profile.Sectors),
		"locations", len(profile.Locations),
	)
	return profile, nil
}

// LoadProfile reads and validates a risk profile file
func LoadProfile(path string) (*config.Profile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, goerr.Wrap(ErrProfileNotFound, "risk profile file does not exist", goerr.V(ProfilePathKey, path))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read risk profile", goerr.V(ProfilePathKey, path))
	}

	profile, err := config.ParseProfile(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load risk profile", goerr.V(ProfilePathKey, path))
	}
	return profile, nil
}
