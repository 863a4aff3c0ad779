package summary_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gt"
	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/types"
	"github.com/qrisq/qrisq/pkg/service/summary"
)

type mockSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	return s.generateContentFn(ctx, input...)
}

func (s *mockSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

type mockLLMClient struct {
	session gollem.Session
	err     error
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.session, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func respondWith(text string) *mockLLMClient {
	return &mockLLMClient{
		session: &mockSession{
			generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
				return &gollem.Response{Texts: []string{text}}, nil
			},
		},
	}
}

func sampleInput() summary.Input {
	return summary.Input{
		Variables: model.ExtractedVariables{
			Modal:  500_000_000,
			Sektor: "F&B",
			Lokasi: "Bandung",
			Tahun:  2026,
		},
		SuccessProbability: 0.6523,
		Metadata: model.QuantumMetadata{
			model.MetaSimulator:      "statevector",
			model.MetaShots:          1024,
			model.MetaQubits:         8,
			model.MetaCircuitDepth:   9,
			model.MetaRotationAngles: map[string]float64{"modal": 2.7288, "sektor": 1.5708},
		},
		Categories: model.RiskCategories{
			High:   []string{"Persaingan"},
			Medium: []string{"Regulasi"},
		},
	}
}

func TestSummarize(t *testing.T) {
	llm := respondWith(`{
		"executive_summary": "CONDITIONAL GO.",
		"probability_explanation": "Modal dominates.",
		"risk_breakdown": "HIGH: persaingan.",
		"key_insight": "Focus on location."
	}`)

	svc := summary.New(summary.WithLLMClient(types.ModelProviderGroq, llm))
	got, err := svc.Summarize(context.Background(), types.ModelProviderGroq, sampleInput())
	gt.NoError(t, err).Required()

	gt.Value(t, got.ExecutiveSummary).Equal("CONDITIONAL GO.")
	gt.Value(t, got.KeyInsight).Equal("Focus on location.")
	gt.Value(t, got.ActionItems).NotNil()
	gt.Array(t, got.ActionItems).Length(0)
}

func TestSummarize_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("no client for provider", func(t *testing.T) {
		svc := summary.New(summary.WithLLMClient(types.ModelProviderGroq, respondWith(`{}`)))
		_, err := svc.Summarize(ctx, types.ModelProviderGemini, sampleInput())
		gt.Error(t, err).Is(summary.ErrNoLLMClient)
	})

	t.Run("session failure", func(t *testing.T) {
		svc := summary.New(summary.WithLLMClient(types.ModelProviderGroq, &mockLLMClient{err: errors.New("boom")}))
		_, err := svc.Summarize(ctx, types.ModelProviderGroq, sampleInput())
		gt.Value(t, err).NotNil()
	})

	t.Run("invalid JSON", func(t *testing.T) {
		svc := summary.New(summary.WithLLMClient(types.ModelProviderGroq, respondWith(`not json`)))
		_, err := svc.Summarize(ctx, types.ModelProviderGroq, sampleInput())
		gt.Value(t, err).NotNil()
	})

	t.Run("empty summary", func(t *testing.T) {
		svc := summary.New(summary.WithLLMClient(types.ModelProviderGroq, respondWith(`{"action_items": []}`)))
		_, err := svc.Summarize(ctx, types.ModelProviderGroq, sampleInput())
		gt.Value(t, err).NotNil()
	})
}

func TestBuildPrompts(t *testing.T) {
	sys, err := summary.BuildSystemPrompt("English")
	gt.NoError(t, err).Required()
	gt.String(t, sys).Contains("Answer in English")

	user, err := summary.BuildUserPrompt(sampleInput())
	gt.NoError(t, err).Required()
	gt.String(t, user).Contains("Rp 500.000.000")
	gt.String(t, user).Contains("65.2%")
	gt.String(t, user).Contains("High: Persaingan")
	gt.String(t, user).Contains("Low: -")
	gt.String(t, user).Contains("modal: 2.7288")
	gt.String(t, user).Contains("Target market: not specified")
}

func TestFormatRupiah(t *testing.T) {
	gt.Value(t, summary.FormatRupiah(999)).Equal("999")
	gt.Value(t, summary.FormatRupiah(1000)).Equal("1.000")
	gt.Value(t, summary.FormatRupiah(1_500_000_000)).Equal("1.500.000.000")
	gt.Value(t, summary.FormatRupiah(12_345_678)).Equal("12.345.678")
}

func TestSummarize_WithRealGemini(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT not set")
	}

	location := os.Getenv("TEST_GEMINI_LOCATION")
	if location == "" {
		t.Skip("TEST_GEMINI_LOCATION not set")
	}

	ctx := context.Background()
	llmClient, err := gemini.New(ctx, projectID, location)
	gt.NoError(t, err).Required()

	svc := summary.New(summary.WithLLMClient(types.ModelProviderGemini, llmClient))
	got, err := svc.Summarize(ctx, types.ModelProviderGemini, sampleInput())
	gt.NoError(t, err).Required()
	gt.String(t, got.ExecutiveSummary).NotEqual("")
}
