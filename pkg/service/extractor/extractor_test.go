package extractor_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gt"
	"github.com/qrisq/qrisq/pkg/domain/model/config"
	"github.com/qrisq/qrisq/pkg/domain/types"
	"github.com/qrisq/qrisq/pkg/service/extractor"
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
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
	calls        int
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	c.calls++
	return c.newSessionFn(ctx, options...)
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func respondWith(text string) *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{text}}, nil
				},
			}, nil
		},
	}
}

const cafeDescription = "Saya ingin membuka cafe kopi di Jakarta Selatan dengan modal 500 juta pada tahun 2026 untuk anak muda"

func TestExtract_LLM(t *testing.T) {
	llm := respondWith(`{
		"modal": "750 juta",
		"sektor": "f&b",
		"lokasi": "Jakarta Selatan",
		"tahun": "2026",
		"target_market": ["mahasiswa", "pekerja kantoran"],
		"competitors": null,
		"team_size": "sekitar 12 orang",
		"business_model": "B2C"
	}`)

	svc := extractor.New(extractor.WithLLMClient(types.ModelProviderGroq, llm))
	result, err := svc.Extract(context.Background(), cafeDescription, types.ModelProviderGroq)
	gt.NoError(t, err).Required()

	gt.Value(t, result.Method).Equal(types.ExtractionMethodLLM)
	gt.Value(t, result.Variables.Modal).Equal(750_000_000.0)
	gt.Value(t, result.Variables.Sektor).Equal("F&B")
	gt.Value(t, result.Variables.Lokasi).Equal("Jakarta Selatan")
	gt.Value(t, result.Variables.Tahun).Equal(2026)
	gt.Value(t, result.Variables.TargetMarket).Equal("mahasiswa, pekerja kantoran")
	gt.Value(t, result.Variables.Competitors).Equal("")
	gt.Value(t, result.Variables.BusinessModel).Equal("B2C")
	gt.Value(t, result.Variables.TeamSize).NotNil()
	gt.Value(t, *result.Variables.TeamSize).Equal(12)
}

func TestExtract_FallbackOnLLMError(t *testing.T) {
	llm := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return nil, errors.New("quota exceeded")
		},
	}

	svc := extractor.New(extractor.WithLLMClient(types.ModelProviderGemini, llm))
	result, err := svc.Extract(context.Background(), cafeDescription, types.ModelProviderGemini)
	gt.NoError(t, err).Required()

	gt.Value(t, llm.calls).Equal(1)
	gt.Value(t, result.Method).Equal(types.ExtractionMethodRegex)
	gt.Value(t, result.Variables.Modal).Equal(500_000_000.0)
	gt.Value(t, result.Variables.Sektor).Equal("F&B")
	gt.Value(t, result.Variables.Lokasi).Equal("Jakarta Selatan")
	gt.Value(t, result.Variables.Tahun).Equal(2026)
}

func TestExtract_FallbackOnInvalidJSON(t *testing.T) {
	svc := extractor.New(extractor.WithLLMClient(types.ModelProviderGroq, respondWith("not json")))
	result, err := svc.Extract(context.Background(), cafeDescription, types.ModelProviderGroq)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Method).Equal(types.ExtractionMethodRegex)
}

func TestExtract_NoClientForProvider(t *testing.T) {
	llm := respondWith(`{}`)
	svc := extractor.New(extractor.WithLLMClient(types.ModelProviderGroq, llm))

	result, err := svc.Extract(context.Background(), cafeDescription, types.ModelProviderGemini)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Method).Equal(types.ExtractionMethodRegex)
	gt.Value(t, llm.calls).Equal(0)
}

func TestExtract_LLMDisabled(t *testing.T) {
	llm := respondWith(`{}`)
	svc := extractor.New(
		extractor.WithLLMClient(types.ModelProviderGroq, llm),
		extractor.WithLLMExtraction(false),
	)

	result, err := svc.Extract(context.Background(), cafeDescription, types.ModelProviderGroq)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Method).Equal(types.ExtractionMethodRegex)
	gt.Value(t, llm.calls).Equal(0)
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := extractor.New().Extract(ctx, cafeDescription, types.ModelProviderGroq)
	gt.Error(t, err).Is(context.Canceled)
}

func TestParseLLMResponse_Defaults(t *testing.T) {
	p := config.DefaultProfile()

	vars, err := extractor.ParseLLMResponse(`{"sektor": "Pariwisata", "modal": 0}`, p)
	gt.NoError(t, err).Required()

	gt.Value(t, vars.Modal).Equal(float64(extractor.DefaultModal))
	gt.Value(t, vars.Sektor).Equal("Lainnya")
	gt.Value(t, vars.Lokasi).Equal("Indonesia")
	gt.Value(t, vars.Tahun).Equal(2025)
	gt.Value(t, vars.TeamSize).Nil()
}

func TestParseLLMResponse_TeamDescription(t *testing.T) {
	p := config.DefaultProfile()

	vars, err := extractor.ParseLLMResponse(`{"team_size": "tim kecil yang lean"}`, p)
	gt.NoError(t, err).Required()
	gt.Value(t, vars.TeamSize).Nil()
	gt.Value(t, vars.TeamDescription).Equal("tim kecil yang lean")

	vars, err = extractor.ParseLLMResponse(`{"team_size": "puluhan orang, sekitar 40"}`, p)
	gt.NoError(t, err).Required()
	gt.Value(t, *vars.TeamSize).Equal(40)
	gt.Value(t, vars.TeamDescription).Equal("")

	vars, err = extractor.ParseLLMResponse(`{"team_size": "Tidak disebutkan"}`, p)
	gt.NoError(t, err).Required()
	gt.Value(t, vars.TeamSize).Nil()
	gt.Value(t, vars.TeamDescription).Equal("")
}

func TestParseLLMResponse_NonFiniteModal(t *testing.T) {
	p := config.DefaultProfile()

	for _, raw := range []string{
		`{"modal": "Infinity"}`,
		`{"modal": "NaN"}`,
		`{"modal": "1e400"}`,
		`{"modal": 1e300}`,
		`{"modal": -5000000}`,
	} {
		vars, err := extractor.ParseLLMResponse(raw, p)
		gt.NoError(t, err).Required()
		gt.Value(t, vars.Modal).Equal(float64(extractor.DefaultModal))
	}
}

func TestParseLLMResponse_Invalid(t *testing.T) {
	_, err := extractor.ParseLLMResponse(`[1, 2]`, config.DefaultProfile())
	gt.Value(t, err).NotNil()
}

func TestBuildUserPrompt(t *testing.T) {
	prompt, err := extractor.BuildUserPrompt(config.DefaultProfile(), cafeDescription)
	gt.NoError(t, err).Required()

	gt.String(t, prompt).Contains(cafeDescription)
	gt.String(t, prompt).Contains("F&B, Teknologi")
	gt.String(t, prompt).Contains("default 2025")
}

func TestBuildResponseSchema(t *testing.T) {
	schema := extractor.BuildResponseSchema(config.DefaultProfile())

	gt.Value(t, schema.Type).Equal(gollem.TypeObject)
	gt.Map(t, schema.Properties).HasKey("modal")
	gt.Map(t, schema.Properties).HasKey("business_model")
	gt.Array(t, schema.Properties["sektor"].Enum).Length(11)
	gt.Bool(t, schema.Properties["tahun"].Required).True()
}

func TestExtract_WithRealGemini(t *testing.T) {
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

	svc := extractor.New(extractor.WithLLMClient(types.ModelProviderGemini, llmClient))
	result, err := svc.Extract(ctx, cafeDescription, types.ModelProviderGemini)
	gt.NoError(t, err).Required()

	gt.Value(t, result.Method).Equal(types.ExtractionMethodLLM)
	gt.Value(t, result.Variables.Sektor).Equal("F&B")
	gt.Number(t, result.Variables.Modal).Greater(0)
}
