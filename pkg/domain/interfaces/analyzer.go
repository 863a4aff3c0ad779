package interfaces

import (
	"context"

	"github.com/qrisq/qrisq/pkg/domain/model"
)

// Analyzer produces an analysis for a request, either in process or through a remote endpoint
type Analyzer interface {
	Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.AnalyzeResponse, error)
}
