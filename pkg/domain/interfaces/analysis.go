package interfaces

import (
	"context"

	"github.com/qrisq/qrisq/pkg/domain/model"
)

// AnalysisRepository defines the interface for completed analysis persistence
type AnalysisRepository interface {
	// Create stores a new analysis. An empty ID is assigned; CreatedAt is set when zero.
	Create(ctx context.Context, analysis *model.Analysis) (*model.Analysis, error)

	// Get retrieves an analysis by ID
	Get(ctx context.Context, id model.AnalysisID) (*model.Analysis, error)

	// List retrieves analyses ordered by CreatedAt descending.
	// Returns analyses, total count of matching analyses, and error
	List(ctx context.Context, limit, offset int, opts ...ListAnalysisOption) ([]*model.Analysis, int, error)
}
