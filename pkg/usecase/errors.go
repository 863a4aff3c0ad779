package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	ErrAnalysisNotFound = goerr.New("analysis not found")
)

// Context keys for error values
const (
	AnalysisIDKey = "analysis_id"
	ProviderKey   = "provider"
)

// Pagination bounds for listing analyses
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)
