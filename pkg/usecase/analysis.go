package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/domain/interfaces"
	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/types"
	"github.com/qrisq/qrisq/pkg/service/summary"
	"github.com/qrisq/qrisq/pkg/utils/async"
	"github.com/qrisq/qrisq/pkg/utils/errutil"
	"github.com/qrisq/qrisq/pkg/utils/logging"
	"github.com/qrisq/qrisq/pkg/utils/metrics"
)

// AnalysisUseCase runs the analysis pipeline and serves stored analyses
type AnalysisUseCase struct {
	uc *UseCases
}

// NewAnalysisUseCase creates a new AnalysisUseCase instance
func NewAnalysisUseCase(uc *UseCases) *AnalysisUseCase {
	return &AnalysisUseCase{uc: uc}
}

// Analyze validates req, runs extraction, simulation, risk assessment and the optional
// narrative summary, then stores the result. Validation failures wrap model.ErrInvalidRequest.
func (a *AnalysisUseCase) Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.Analysis, error) {
	start := time.Now()

	// provider labels only ever carry known values
	if err := req.Validate(); err != nil {
		label := metrics.ProviderInvalid
		if req.ModelProvider.IsValid() {
			label = req.ModelProvider.String()
		} else if req.ModelProvider == "" {
			label = a.uc.defaultProvider.String()
		}
		metrics.AnalysesTotal.WithLabelValues(label, metrics.StatusRejected).Inc()
		return nil, goerr.Wrap(err, "invalid analysis request")
	}

	provider := req.ModelProvider
	if provider == "" {
		provider = a.uc.defaultProvider
	}

	logger := logging.From(ctx).With("provider", provider.String())
	ctx = logging.With(ctx, logger)

	analysis, err := a.analyze(ctx, provider, req.Description)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(provider.String(), metrics.StatusFailure).Inc()
		return nil, err
	}

	analysis.Duration = time.Since(start)
	a.save(ctx, analysis)

	metrics.AnalysesTotal.WithLabelValues(provider.String(), metrics.StatusSuccess).Inc()
	metrics.AnalysisDuration.WithLabelValues(provider.String()).Observe(analysis.Duration.Seconds())
	metrics.SuccessProbability.Observe(analysis.Response.SuccessProbability)

	logger.Info("analysis completed",
		"analysis_id", analysis.ID.String(),
		"success_probability", analysis.Response.SuccessProbability,
		"extraction", analysis.ExtractionMethod.String(),
		"cached", analysis.Cached,
		"duration", analysis.Duration.String(),
	)

	return analysis, nil
}

func (a *AnalysisUseCase) analyze(ctx context.Context, provider types.ModelProvider, description string) (*model.Analysis, error) {
	analysis := &model.Analysis{
		ID:          model.NewAnalysisID(),
		Description: description,
		Provider:    provider,
		CreatedAt:   time.Now().UTC(),
	}

	if resp := a.lookupCache(ctx, provider, description); resp != nil {
		analysis.Response = resp
		analysis.Cached = true
		return analysis, nil
	}

	extracted, err := a.uc.extractor.Extract(ctx, description, provider)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract variables", goerr.V(ProviderKey, provider))
	}
	metrics.ExtractionsTotal.WithLabelValues(extracted.Method.String()).Inc()
	analysis.ExtractionMethod = extracted.Method

	result, err := a.uc.simulator.Run(ctx, extracted.Variables)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to run simulation")
	}

	assessment := a.uc.engine.Assess(extracted.Variables, result.SuccessProbability, result.Distribution[:])

	resp := &model.AnalyzeResponse{
		SuccessProbability: result.SuccessProbability,
		RiskHeatmap:        assessment.Heatmap,
		RiskCategories:     assessment.Categories,
		Recommendations:    assessment.Recommendations,
		ExtractedVariables: extracted.Variables,
		QuantumMetadata:    result.Metadata,
	}
	resp.QuantumSummary = a.summarize(ctx, provider, summary.Input{
		Variables:          extracted.Variables,
		SuccessProbability: result.SuccessProbability,
		Metadata:           result.Metadata,
		Categories:         assessment.Categories,
	})

	if err := resp.Validate(); err != nil {
		return nil, goerr.Wrap(err, "pipeline produced an invalid response")
	}

	analysis.Response = resp

	if a.uc.cache != nil {
		cached := resp.Clone()
		async.Dispatch(ctx, func(ctx context.Context) error {
			return a.uc.cache.Put(ctx, provider, description, cached)
		})
	}

	return analysis, nil
}

func (a *AnalysisUseCase) lookupCache(ctx context.Context, provider types.ModelProvider, description string) *model.AnalyzeResponse {
	if a.uc.cache == nil {
		return nil
	}

	resp, err := a.uc.cache.Get(ctx, provider, description)
	if err != nil {
		logging.From(ctx).Warn("result cache lookup failed", "error", err.Error())
		return nil
	}
	if resp == nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
		return nil
	}

	metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
	return resp
}

// summarize never fails the analysis; a missing summary is an accepted outcome
func (a *AnalysisUseCase) summarize(ctx context.Context, provider types.ModelProvider, input summary.Input) *model.QuantumSummary {
	if a.uc.summarizer == nil {
		metrics.SummariesTotal.WithLabelValues(metrics.StatusSkipped).Inc()
		return nil
	}

	s, err := a.uc.summarizer.Summarize(ctx, provider, input)
	switch {
	case errors.Is(err, summary.ErrNoLLMClient):
		metrics.SummariesTotal.WithLabelValues(metrics.StatusSkipped).Inc()
		return nil
	case err != nil:
		metrics.SummariesTotal.WithLabelValues(metrics.StatusFailure).Inc()
		logging.From(ctx).Warn("summary generation failed", "error", err.Error())
		return nil
	}

	metrics.SummariesTotal.WithLabelValues(metrics.StatusSuccess).Inc()
	return s
}

// save stores the analysis and stamps its ID on the response. A storage failure is reported
// but the analysis is still returned, without an ID.
func (a *AnalysisUseCase) save(ctx context.Context, analysis *model.Analysis) {
	if a.uc.repo == nil {
		return
	}

	if _, err := a.uc.repo.Analysis().Create(ctx, analysis); err != nil {
		errutil.Handle(ctx, err, "failed to store analysis")
		return
	}

	analysis.Response = analysis.Response.Clone()
	analysis.Response.AnalysisID = analysis.ID
}

// Get returns a stored analysis
func (a *AnalysisUseCase) Get(ctx context.Context, id model.AnalysisID) (*model.Analysis, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(ErrAnalysisNotFound, "malformed analysis ID", goerr.V(AnalysisIDKey, id))
	}

	analysis, err := a.uc.repo.Analysis().Get(ctx, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(ErrAnalysisNotFound, "analysis not found", goerr.V(AnalysisIDKey, id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get analysis", goerr.V(AnalysisIDKey, id))
	}

	if analysis.Response != nil {
		analysis.Response.AnalysisID = analysis.ID
	}
	return analysis, nil
}

// List returns stored analyses, newest first, with the total count
func (a *AnalysisUseCase) List(ctx context.Context, limit, offset int, opts ...interfaces.ListAnalysisOption) ([]*model.Analysis, int, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)
	offset = max(offset, 0)

	analyses, total, err := a.uc.repo.Analysis().List(ctx, limit, offset, opts...)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to list analyses")
	}
	return analyses, total, nil
}

// Respond adapts Analyze to the interfaces.Analyzer port
func (a *AnalysisUseCase) Respond(ctx context.Context, req *model.AnalyzeRequest) (*model.AnalyzeResponse, error) {
	analysis, err := a.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	return analysis.Response, nil
}

// Analyzer exposes the use case through the interfaces.Analyzer port
func (a *AnalysisUseCase) Analyzer() interfaces.Analyzer {
	return analyzerFunc(a.Respond)
}

type analyzerFunc func(ctx context.Context, req *model.AnalyzeRequest) (*model.AnalyzeResponse, error)

func (f analyzerFunc) Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.AnalyzeResponse, error) {
	return f(ctx, req)
}
