package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrProfileNotFound = goerr.New("risk profile file not found")
)

// Context keys for error values
const (
	ProfilePathKey = "profile_path"
	FlagKey        = "flag"
	ValueKey       = "value"
)
