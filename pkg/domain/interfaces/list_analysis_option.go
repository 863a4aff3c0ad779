package interfaces

import "github.com/qrisq/qrisq/pkg/domain/types"

// ListAnalysisOption is a functional option for filtering analyses in List
type ListAnalysisOption func(*listAnalysisConfig)

type listAnalysisConfig struct {
	provider *types.ModelProvider
	sektor   *string
}

// WithProvider filters analyses by model provider
func WithProvider(provider types.ModelProvider) ListAnalysisOption {
	return func(c *listAnalysisConfig) {
		c.provider = &provider
	}
}

// WithSektor filters analyses by extracted sector
func WithSektor(sektor string) ListAnalysisOption {
	return func(c *listAnalysisConfig) {
		c.sektor = &sektor
	}
}

// BuildListAnalysisConfig builds a listAnalysisConfig from options
func BuildListAnalysisConfig(opts ...ListAnalysisOption) *listAnalysisConfig {
	cfg := &listAnalysisConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Provider returns the provider filter value, or nil if not set
func (c *listAnalysisConfig) Provider() *types.ModelProvider {
	return c.provider
}

// Sektor returns the sector filter value, or nil if not set
func (c *listAnalysisConfig) Sektor() *string {
	return c.sektor
}

// Match reports whether a record with the given provider and sector passes the filters
func (c *listAnalysisConfig) Match(provider types.ModelProvider, sektor string) bool {
	if c.provider != nil && *c.provider != provider {
		return false
	}
	if c.sektor != nil && *c.sektor != sektor {
		return false
	}
	return true
}
