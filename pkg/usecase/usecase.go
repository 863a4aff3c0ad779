package usecase

import (
	"github.com/qrisq/qrisq/pkg/domain/interfaces"
	"github.com/qrisq/qrisq/pkg/domain/types"
	"github.com/qrisq/qrisq/pkg/service/extractor"
	"github.com/qrisq/qrisq/pkg/service/quantum"
	"github.com/qrisq/qrisq/pkg/service/risk"
	"github.com/qrisq/qrisq/pkg/service/summary"
)

type UseCases struct {
	repo            interfaces.Repository
	cache           interfaces.ResultCache
	extractor       extractor.Service
	simulator       quantum.Simulator
	engine          *risk.Engine
	summarizer      summary.Service
	defaultProvider types.ModelProvider

	Analysis *AnalysisUseCase
}

type Option func(*UseCases)

// WithResultCache enables response caching
func WithResultCache(cache interfaces.ResultCache) Option {
	return func(uc *UseCases) {
		uc.cache = cache
	}
}

func WithExtractor(svc extractor.Service) Option {
	return func(uc *UseCases) {
		uc.extractor = svc
	}
}

func WithSimulator(sim quantum.Simulator) Option {
	return func(uc *UseCases) {
		uc.simulator = sim
	}
}

func WithRiskEngine(engine *risk.Engine) Option {
	return func(uc *UseCases) {
		uc.engine = engine
	}
}

// WithSummarizer enables the narrative summary. Without it responses never carry one.
func WithSummarizer(svc summary.Service) Option {
	return func(uc *UseCases) {
		uc.summarizer = svc
	}
}

// WithDefaultProvider sets the provider used when a request names none
func WithDefaultProvider(provider types.ModelProvider) Option {
	return func(uc *UseCases) {
		if provider != "" {
			uc.defaultProvider = provider
		}
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:            repo,
		defaultProvider: types.ModelProviderGroq,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.extractor == nil {
		uc.extractor = extractor.New()
	}
	if uc.simulator == nil {
		uc.simulator = quantum.New()
	}
	if uc.engine == nil {
		uc.engine = risk.New()
	}

	uc.Analysis = NewAnalysisUseCase(uc)

	return uc
}
