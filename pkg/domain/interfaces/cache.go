package interfaces

import (
	"context"

	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/types"
)

// ResultCache stores finished responses so that repeated scenarios skip the pipeline
type ResultCache interface {
	// Get returns nil without error on a miss
	Get(ctx context.Context, provider types.ModelProvider, description string) (*model.AnalyzeResponse, error)
	Put(ctx context.Context, provider types.ModelProvider, description string, resp *model.AnalyzeResponse) error
}
