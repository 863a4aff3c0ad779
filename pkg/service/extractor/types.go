package extractor

import (
	"context"

	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/types"
)

// Service turns a free text business scenario into structured variables
type Service interface {
	// Extract never fails because of the LLM: any LLM problem falls back to pattern matching.
	// An error is returned only when ctx is done.
	Extract(ctx context.Context, description string, provider types.ModelProvider) (*Result, error)
}

// Result is the outcome of one extraction
type Result struct {
	Variables model.ExtractedVariables
	Method    types.ExtractionMethod
}
