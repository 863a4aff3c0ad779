package extractor

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/model/config"
	"github.com/qrisq/qrisq/pkg/domain/types"
	"github.com/qrisq/qrisq/pkg/utils/logging"
)

//go:embed prompt/extract_system.md
var systemPrompt string

//go:embed prompt/extract_user.md
var userPromptTmpl string

var userPrompt = template.Must(template.New("extract_user").Parse(userPromptTmpl))

// client implements Service
type client struct {
	llmClients map[types.ModelProvider]gollem.LLMClient
	profile    *config.Profile
	useLLM     bool
}

// Option is a functional option for client configuration
type Option func(*client)

// WithLLMClient registers the LLM client used for provider
func WithLLMClient(provider types.ModelProvider, llmClient gollem.LLMClient) Option {
	return func(c *client) {
		if llmClient != nil {
			c.llmClients[provider] = llmClient
		}
	}
}

// WithProfile replaces the default risk profile
func WithProfile(profile *config.Profile) Option {
	return func(c *client) {
		if profile != nil {
			c.profile = profile
		}
	}
}

// WithLLMExtraction enables or disables the LLM path. Enabled by default.
func WithLLMExtraction(enabled bool) Option {
	return func(c *client) {
		c.useLLM = enabled
	}
}

// New creates an extraction service. Without any LLM client it always uses pattern matching.
func New(opts ...Option) Service {
	c := &client{
		llmClients: make(map[types.ModelProvider]gollem.LLMClient),
		profile:    config.DefaultProfile(),
		useLLM:     true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) Extract(ctx context.Context, description string, provider types.ModelProvider) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "extraction cancelled")
	}

	logger := logging.From(ctx)

	if llmClient, ok := c.llmClients[provider]; ok && c.useLLM {
		vars, err := c.extractLLM(ctx, llmClient, description)
		if err == nil {
			return &Result{Variables: *vars, Method: types.ExtractionMethodLLM}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, goerr.Wrap(ctxErr, "extraction cancelled")
		}
		logger.Warn("LLM extraction failed, falling back to pattern matching",
			"provider", provider.String(),
			"error", err.Error(),
		)
	}

	return &Result{
		Variables: extractRegex(description, c.profile),
		Method:    types.ExtractionMethodRegex,
	}, nil
}

func (c *client) extractLLM(ctx context.Context, llmClient gollem.LLMClient, description string) (*model.ExtractedVariables, error) {
	prompt, err := buildUserPrompt(c.profile, description)
	if err != nil {
		return nil, err
	}

	session, err := llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema(c.profile)),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return nil, goerr.New("empty LLM response")
	}

	return parseLLMResponse(resp.Texts[0], c.profile)
}

type promptData struct {
	Sectors         []string
	DefaultLocation string
	BaseYear        int
	Description     string
}

func buildUserPrompt(profile *config.Profile, description string) (string, error) {
	data := promptData{
		DefaultLocation: profile.DefaultLocation,
		BaseYear:        profile.BaseYear,
		Description:     description,
	}
	for _, s := range profile.Sectors {
		data.Sectors = append(data.Sectors, s.Name)
	}

	var buf bytes.Buffer
	if err := userPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render extraction prompt")
	}
	return buf.String(), nil
}

func buildResponseSchema(profile *config.Profile) *gollem.Parameter {
	sectors := make([]string, 0, len(profile.Sectors))
	for _, s := range profile.Sectors {
		sectors = append(sectors, s.Name)
	}

	text := func(desc string) *gollem.Parameter {
		return &gollem.Parameter{Type: gollem.TypeString, Description: desc}
	}

	return &gollem.Parameter{
		Title:       "BusinessVariables",
		Description: "Structured variables extracted from a business scenario",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"modal": {
				Type:        gollem.TypeNumber,
				Description: "Capital or investment amount in Rupiah",
				Required:    true,
			},
			"sektor": {
				Type:        gollem.TypeString,
				Description: "Business sector, one of: " + strings.Join(sectors, ", "),
				Required:    true,
				Enum:        sectors,
			},
			"lokasi": {
				Type:        gollem.TypeString,
				Description: "Business location (Indonesian city or region)",
				Required:    true,
			},
			"tahun": {
				Type:        gollem.TypeInteger,
				Description: "Target year (4 digits)",
				Required:    true,
			},
			"target_market":  text("Target customers or market"),
			"competitors":    text("Competitors or players in the same industry"),
			"unique_value":   text("Differentiation of the business"),
			"timeline":       text("Business phase or timeline"),
			"team_size":      text("Estimated team size: a head count, or a short description such as 'tim kecil'"),
			"business_model": text("Business model (B2B, B2C, SaaS, marketplace, ...)"),
		},
	}
}

// parseLLMResponse tolerates loosely typed values: numbers as strings and lists for text fields
func parseLLMResponse(raw string, profile *config.Profile) (*model.ExtractedVariables, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, goerr.Wrap(err, "failed to parse LLM response", goerr.V("response", raw))
	}

	vars := &model.ExtractedVariables{
		Modal:  DefaultModal,
		Sektor: profile.DefaultSector,
		Lokasi: profile.DefaultLocation,
		Tahun:  profile.BaseYear,
	}

	if modal, ok := toModal(fields["modal"]); ok {
		vars.Modal = modal
	}
	if sektor := toText(fields["sektor"]); sektor != "" {
		vars.Sektor = profile.NormalizeSector(sektor)
	}
	if lokasi := toText(fields["lokasi"]); lokasi != "" {
		vars.Lokasi = lokasi
	}
	if tahun, ok := toInt(fields["tahun"]); ok && tahun > 0 {
		vars.Tahun = tahun
	}

	vars.TargetMarket = toText(fields["target_market"])
	vars.Competitors = toText(fields["competitors"])
	vars.UniqueValue = toText(fields["unique_value"])
	vars.Timeline = toText(fields["timeline"])
	vars.BusinessModel = toText(fields["business_model"])
	if size, ok := toInt(fields["team_size"]); ok && size > 0 {
		vars.TeamSize = &size
	} else if team := toText(fields["team_size"]); team != "" && !strings.EqualFold(team, "tidak disebutkan") {
		vars.TeamDescription = team
	}

	return vars, nil
}

func toModal(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, validModal(n)
	case string:
		s := strings.TrimSpace(n)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, validModal(f)
		}
		return parseModal(strings.ToLower(s))
	default:
		return 0, false
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(math.Round(n)), true
	case string:
		return parseFirstInt(n)
	default:
		return 0, false
	}
}

func toText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case []any:
		parts := make([]string, 0, len(s))
		for _, item := range s {
			if t := toText(item); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(s)
	}
}
