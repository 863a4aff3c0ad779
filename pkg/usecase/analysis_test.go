package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/qrisq/qrisq/pkg/domain/interfaces"
	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/types"
	"github.com/qrisq/qrisq/pkg/repository/memory"
	"github.com/qrisq/qrisq/pkg/service/quantum"
	"github.com/qrisq/qrisq/pkg/service/summary"
	"github.com/qrisq/qrisq/pkg/usecase"
	"github.com/qrisq/qrisq/pkg/utils/metrics"
)

const cafeDescription = "Saya ingin membuka cafe kopi di Jakarta Selatan dengan modal 500 juta pada tahun 2026 untuk anak muda"

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*model.AnalyzeResponse
	puts    chan string
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: map[string]*model.AnalyzeResponse{},
		puts:    make(chan string, 8),
	}
}

func (c *fakeCache) Get(ctx context.Context, provider types.ModelProvider, description string) (*model.AnalyzeResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	resp, ok := c.entries[provider.String()+"|"+description]
	if !ok {
		return nil, nil
	}
	return resp.Clone(), nil
}

func (c *fakeCache) Put(ctx context.Context, provider types.ModelProvider, description string, resp *model.AnalyzeResponse) error {
	key := provider.String() + "|" + description
	c.mu.Lock()
	c.entries[key] = resp.Clone()
	c.mu.Unlock()
	c.puts <- key
	return nil
}

type fakeSummarizer struct {
	result *model.QuantumSummary
	err    error
	calls  int
}

func (s *fakeSummarizer) Summarize(ctx context.Context, provider types.ModelProvider, input summary.Input) (*model.QuantumSummary, error) {
	s.calls++
	return s.result, s.err
}

type failingRepository struct {
	interfaces.Repository
}

func (r *failingRepository) Analysis() interfaces.AnalysisRepository {
	return &failingAnalysisRepository{}
}

type failingAnalysisRepository struct {
	interfaces.AnalysisRepository
}

func (r *failingAnalysisRepository) Create(ctx context.Context, analysis *model.Analysis) (*model.Analysis, error) {
	return nil, goerr.New("storage unavailable")
}

func newUseCases(t *testing.T, opts ...usecase.Option) (*usecase.UseCases, interfaces.Repository) {
	t.Helper()
	repo := memory.New()
	base := []usecase.Option{
		usecase.WithSimulator(quantum.New(quantum.WithSeed(42))),
	}
	return usecase.New(repo, append(base, opts...)...), repo
}

// providerLabels returns every provider label value recorded on the analyses counter
func providerLabels(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	gt.NoError(t, err).Required()

	labels := map[string]bool{}
	for _, mf := range families {
		if mf.GetName() != "qrisq_analyses_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "provider" {
					labels[lp.GetValue()] = true
				}
			}
		}
	}
	return labels
}

func TestAnalyze(t *testing.T) {
	t.Run("runs the pipeline and stores the analysis", func(t *testing.T) {
		uc, repo := newUseCases(t)
		ctx := context.Background()

		analysis, err := uc.Analysis.Analyze(ctx, &model.AnalyzeRequest{Description: cafeDescription})
		gt.NoError(t, err).Required()

		gt.Value(t, analysis.Provider).Equal(types.ModelProviderGroq)
		gt.Value(t, analysis.ExtractionMethod).Equal(types.ExtractionMethodRegex)
		gt.Bool(t, analysis.Cached).False()

		resp := analysis.Response
		gt.NoError(t, resp.Validate())
		gt.Value(t, resp.AnalysisID).Equal(analysis.ID)
		gt.Value(t, resp.ExtractedVariables.Modal).Equal(500_000_000.0)
		gt.Value(t, resp.ExtractedVariables.Sektor).Equal("F&B")
		gt.Value(t, resp.ExtractedVariables.Tahun).Equal(2026)
		gt.Bool(t, resp.SuccessProbability >= 0 && resp.SuccessProbability <= 1).True()
		gt.Value(t, resp.RiskCategories.Total()).Equal(8)
		gt.Bool(t, resp.QuantumSummary == nil).True()

		stored, err := repo.Analysis().Get(ctx, analysis.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.Response.SuccessProbability).Equal(resp.SuccessProbability)
	})

	t.Run("same seed gives the same probability", func(t *testing.T) {
		uc1, _ := newUseCases(t)
		uc2, _ := newUseCases(t)
		ctx := context.Background()
		req := &model.AnalyzeRequest{Description: cafeDescription}

		a1, err := uc1.Analysis.Analyze(ctx, req)
		gt.NoError(t, err).Required()
		a2, err := uc2.Analysis.Analyze(ctx, req)
		gt.NoError(t, err).Required()

		gt.Value(t, a1.Response.SuccessProbability).Equal(a2.Response.SuccessProbability)
		gt.Value(t, a1.Response.RiskHeatmap).Equal(a2.Response.RiskHeatmap)
	})

	t.Run("rejects short description", func(t *testing.T) {
		uc, repo := newUseCases(t)
		ctx := context.Background()

		_, err := uc.Analysis.Analyze(ctx, &model.AnalyzeRequest{Description: "cafe di Jakarta"})
		gt.Error(t, err).Is(model.ErrDescriptionTooShort)
		gt.Bool(t, errors.Is(err, model.ErrInvalidRequest)).True()

		_, total, err := repo.Analysis().List(ctx, 10, 0)
		gt.NoError(t, err)
		gt.Value(t, total).Equal(0)
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		uc, _ := newUseCases(t)

		_, err := uc.Analysis.Analyze(context.Background(), &model.AnalyzeRequest{
			Description:   cafeDescription,
			ModelProvider: "openai",
		})
		gt.Error(t, err).Is(model.ErrInvalidProvider)
	})

	t.Run("unknown providers share one metric label", func(t *testing.T) {
		uc, _ := newUseCases(t)

		for i := range 20 {
			_, err := uc.Analysis.Analyze(context.Background(), &model.AnalyzeRequest{
				Description:   cafeDescription,
				ModelProvider: types.ModelProvider(fmt.Sprintf("vendor-%d", i)),
			})
			gt.Error(t, err).Is(model.ErrInvalidProvider)
		}

		after := providerLabels(t)
		gt.Map(t, after).HasKey(metrics.ProviderInvalid)
		for label := range after {
			gt.Bool(t, label == metrics.ProviderInvalid || types.ModelProvider(label).IsValid()).True()
		}
	})

	t.Run("uses configured default provider", func(t *testing.T) {
		uc, _ := newUseCases(t, usecase.WithDefaultProvider(types.ModelProviderGemini))
		gt.Value(t, uc.DefaultProvider()).Equal(types.ModelProviderGemini)

		analysis, err := uc.Analysis.Analyze(context.Background(), &model.AnalyzeRequest{Description: cafeDescription})
		gt.NoError(t, err).Required()
		gt.Value(t, analysis.Provider).Equal(types.ModelProviderGemini)
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		uc, _ := newUseCases(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := uc.Analysis.Analyze(ctx, &model.AnalyzeRequest{Description: cafeDescription})
		gt.Error(t, err)
	})

	t.Run("storage failure still returns result without ID", func(t *testing.T) {
		uc := usecase.New(&failingRepository{}, usecase.WithSimulator(quantum.New(quantum.WithSeed(1))))

		analysis, err := uc.Analysis.Analyze(context.Background(), &model.AnalyzeRequest{Description: cafeDescription})
		gt.NoError(t, err).Required()
		gt.Value(t, analysis.Response.AnalysisID).Equal(model.AnalysisID(""))
		gt.NoError(t, analysis.Response.Validate())
	})
}

func TestAnalyze_Summary(t *testing.T) {
	ctx := context.Background()
	req := &model.AnalyzeRequest{Description: cafeDescription}

	t.Run("attaches summary", func(t *testing.T) {
		s := &fakeSummarizer{result: &model.QuantumSummary{
			ExecutiveSummary: "Peluang cukup baik.",
			ActionItems:      []string{"Validasi pasar"},
		}}
		uc, _ := newUseCases(t, usecase.WithSummarizer(s))

		analysis, err := uc.Analysis.Analyze(ctx, req)
		gt.NoError(t, err).Required()
		gt.Value(t, s.calls).Equal(1)
		gt.Bool(t, analysis.Response.QuantumSummary != nil).True()
		gt.Value(t, analysis.Response.QuantumSummary.ExecutiveSummary).Equal("Peluang cukup baik.")
	})

	t.Run("missing client omits summary", func(t *testing.T) {
		s := &fakeSummarizer{err: goerr.Wrap(summary.ErrNoLLMClient, "no client")}
		uc, _ := newUseCases(t, usecase.WithSummarizer(s))

		analysis, err := uc.Analysis.Analyze(ctx, req)
		gt.NoError(t, err).Required()
		gt.Bool(t, analysis.Response.QuantumSummary == nil).True()
	})

	t.Run("summary failure does not fail analysis", func(t *testing.T) {
		s := &fakeSummarizer{err: goerr.New("rate limited")}
		uc, _ := newUseCases(t, usecase.WithSummarizer(s))

		analysis, err := uc.Analysis.Analyze(ctx, req)
		gt.NoError(t, err).Required()
		gt.Bool(t, analysis.Response.QuantumSummary == nil).True()
		gt.NoError(t, analysis.Response.Validate())
	})
}

func TestAnalyze_Cache(t *testing.T) {
	ctx := context.Background()
	req := &model.AnalyzeRequest{Description: cafeDescription, ModelProvider: types.ModelProviderGroq}

	t.Run("stores result and serves it on the next call", func(t *testing.T) {
		cache := newFakeCache()
		uc, _ := newUseCases(t, usecase.WithResultCache(cache))

		first, err := uc.Analysis.Analyze(ctx, req)
		gt.NoError(t, err).Required()
		gt.Bool(t, first.Cached).False()

		select {
		case key := <-cache.puts:
			gt.Bool(t, strings.HasPrefix(key, "groq|")).True()
		case <-time.After(time.Second):
			t.Fatal("result was not cached")
		}

		second, err := uc.Analysis.Analyze(ctx, req)
		gt.NoError(t, err).Required()
		gt.Bool(t, second.Cached).True()
		gt.Value(t, second.Response.SuccessProbability).Equal(first.Response.SuccessProbability)
		gt.Value(t, second.Response.AnalysisID).Equal(second.ID)
		gt.Value(t, second.ID).NotEqual(first.ID)
	})

	t.Run("cache is keyed by provider", func(t *testing.T) {
		cache := newFakeCache()
		uc, _ := newUseCases(t, usecase.WithResultCache(cache))

		_, err := uc.Analysis.Analyze(ctx, req)
		gt.NoError(t, err).Required()
		<-cache.puts

		other, err := uc.Analysis.Analyze(ctx, &model.AnalyzeRequest{
			Description:   cafeDescription,
			ModelProvider: types.ModelProviderGemini,
		})
		gt.NoError(t, err).Required()
		gt.Bool(t, other.Cached).False()
	})

	t.Run("lookup error falls through to the pipeline", func(t *testing.T) {
		cache := newFakeCache()
		cache.getErr = goerr.New("connection refused")
		uc, _ := newUseCases(t, usecase.WithResultCache(cache))

		analysis, err := uc.Analysis.Analyze(ctx, req)
		gt.NoError(t, err).Required()
		gt.Bool(t, analysis.Cached).False()
	})
}

func TestAnalysis_GetAndList(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCases(t)

	var ids []model.AnalysisID
	for range 3 {
		a, err := uc.Analysis.Analyze(ctx, &model.AnalyzeRequest{Description: cafeDescription})
		gt.NoError(t, err).Required()
		ids = append(ids, a.ID)
		time.Sleep(2 * time.Millisecond)
	}

	t.Run("get returns stored analysis", func(t *testing.T) {
		got, err := uc.Analysis.Get(ctx, ids[1])
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(ids[1])
		gt.Value(t, got.Response.AnalysisID).Equal(ids[1])
	})

	t.Run("get unknown ID", func(t *testing.T) {
		_, err := uc.Analysis.Get(ctx, model.NewAnalysisID())
		gt.Error(t, err).Is(usecase.ErrAnalysisNotFound)
	})

	t.Run("get malformed ID", func(t *testing.T) {
		_, err := uc.Analysis.Get(ctx, model.AnalysisID("not-a-uuid"))
		gt.Error(t, err).Is(usecase.ErrAnalysisNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		list, total, err := uc.Analysis.List(ctx, 0, 0)
		gt.NoError(t, err).Required()
		gt.Value(t, total).Equal(3)
		gt.A(t, list).Length(3)
		gt.Value(t, list[0].ID).Equal(ids[2])
		gt.Value(t, list[2].ID).Equal(ids[0])
	})

	t.Run("list with offset", func(t *testing.T) {
		list, total, err := uc.Analysis.List(ctx, 1, 1)
		gt.NoError(t, err).Required()
		gt.Value(t, total).Equal(3)
		gt.A(t, list).Length(1)
		gt.Value(t, list[0].ID).Equal(ids[1])
	})
}

func TestAnalyzer(t *testing.T) {
	uc, _ := newUseCases(t, usecase.WithSimulator(quantum.NewMock()))

	var analyzer interfaces.Analyzer = uc.Analysis.Analyzer()
	resp, err := analyzer.Analyze(context.Background(), &model.AnalyzeRequest{Description: cafeDescription})
	gt.NoError(t, err).Required()
	gt.Value(t, resp.QuantumMetadata.Simulator()).Equal(quantum.SimulatorMock)
	gt.Bool(t, resp.AnalysisID != "").True()
}
