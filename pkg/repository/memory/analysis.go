package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/domain/interfaces"
	"github.com/qrisq/qrisq/pkg/domain/model"
)

type analysisRepository struct {
	mu       sync.RWMutex
	analyses map[model.AnalysisID]*model.Analysis
}

func newAnalysisRepository() *analysisRepository {
	return &analysisRepository{
		analyses: make(map[model.AnalysisID]*model.Analysis),
	}
}

func (r *analysisRepository) Create(ctx context.Context, analysis *model.Analysis) (*model.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := analysis.Clone()
	if created.ID == "" {
		created.ID = model.NewAnalysisID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	if _, exists := r.analyses[created.ID]; exists {
		return nil, goerr.New("analysis already exists", goerr.V("id", created.ID))
	}

	r.analyses[created.ID] = created
	return created.Clone(), nil
}

func (r *analysisRepository) Get(ctx context.Context, id model.AnalysisID) (*model.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	analysis, exists := r.analyses[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "analysis not found", goerr.V("id", id))
	}

	return analysis.Clone(), nil
}

func (r *analysisRepository) List(ctx context.Context, limit, offset int, opts ...interfaces.ListAnalysisOption) ([]*model.Analysis, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg := interfaces.BuildListAnalysisConfig(opts...)
	all := make([]*model.Analysis, 0, len(r.analyses))
	for _, a := range r.analyses {
		var sektor string
		if a.Response != nil {
			sektor = a.Response.ExtractedVariables.Sektor
		}
		if cfg.Match(a.Provider, sektor) {
			all = append(all, a)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if offset >= total {
		return []*model.Analysis{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	result := make([]*model.Analysis, 0, end-offset)
	for _, a := range all[offset:end] {
		result = append(result, a.Clone())
	}
	return result, total, nil
}
