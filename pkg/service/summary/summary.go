package summary

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/types"
)

//go:embed prompt/summary_system.md
var systemPromptTmpl string

//go:embed prompt/summary_user.md
var userPromptTmpl string

var (
	systemPrompt = template.Must(template.New("summary_system").Parse(systemPromptTmpl))
	userPrompt   = template.Must(template.New("summary_user").Funcs(template.FuncMap{
		"join": func(items []string) string {
			if len(items) == 0 {
				return "-"
			}
			return strings.Join(items, ", ")
		},
	}).Parse(userPromptTmpl))
)

// DefaultLanguage is the narrative language used when none is configured
const DefaultLanguage = "Indonesian"

// ErrNoLLMClient is returned when no LLM client is registered for the provider
var ErrNoLLMClient = goerr.New("no LLM client for provider")

// Service writes the narrative explanation of an analysis
type Service interface {
	Summarize(ctx context.Context, provider types.ModelProvider, input Input) (*model.QuantumSummary, error)
}

// Input is everything the narrative is based on
type Input struct {
	Variables          model.ExtractedVariables
	SuccessProbability float64
	Metadata           model.QuantumMetadata
	Categories         model.RiskCategories
}

type client struct {
	llmClients map[types.ModelProvider]gollem.LLMClient
	language   string
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

// WithLanguage sets the narrative language
func WithLanguage(language string) Option {
	return func(c *client) {
		if language != "" {
			c.language = language
		}
	}
}

// New creates a summary service
func New(opts ...Option) Service {
	c := &client{
		llmClients: make(map[types.ModelProvider]gollem.LLMClient),
		language:   DefaultLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) Summarize(ctx context.Context, provider types.ModelProvider, input Input) (*model.QuantumSummary, error) {
	llmClient, ok := c.llmClients[provider]
	if !ok {
		return nil, goerr.Wrap(ErrNoLLMClient, "summary unavailable", goerr.V("provider", provider.String()))
	}

	sys, err := buildSystemPrompt(c.language)
	if err != nil {
		return nil, err
	}
	user, err := buildUserPrompt(input)
	if err != nil {
		return nil, err
	}

	session, err := llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(sys),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(user))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return nil, goerr.New("empty LLM response")
	}

	var summary model.QuantumSummary
	if err := json.Unmarshal([]byte(resp.Texts[0]), &summary); err != nil {
		return nil, goerr.Wrap(err, "failed to parse LLM response", goerr.V("response", resp.Texts[0]))
	}
	if summary.ExecutiveSummary == "" {
		return nil, goerr.New("LLM response has no executive summary", goerr.V("response", resp.Texts[0]))
	}
	if summary.ActionItems == nil {
		summary.ActionItems = []string{}
	}

	return &summary, nil
}

func buildSystemPrompt(language string) (string, error) {
	var buf bytes.Buffer
	if err := systemPrompt.Execute(&buf, struct{ Language string }{Language: language}); err != nil {
		return "", goerr.Wrap(err, "failed to render summary system prompt")
	}
	return buf.String(), nil
}

type namedAngle struct {
	Name  string
	Value float64
}

type userPromptData struct {
	Vars        model.ExtractedVariables
	Modal       string
	Probability string
	Simulator   string
	Shots       int
	Qubits      int
	Depth       int
	Angles      []namedAngle
	Categories  model.RiskCategories
}

func buildUserPrompt(input Input) (string, error) {
	data := userPromptData{
		Vars:        input.Variables,
		Modal:       formatRupiah(input.Variables.Modal),
		Probability: fmt.Sprintf("%.1f%%", input.SuccessProbability*100),
		Simulator:   input.Metadata.Simulator(),
		Categories:  input.Categories,
	}
	data.Shots, _ = input.Metadata.Shots()
	data.Qubits, _ = input.Metadata.Qubits()
	data.Depth, _ = input.Metadata.CircuitDepth()

	angles := input.Metadata.RotationAngles()
	for name, v := range angles {
		data.Angles = append(data.Angles, namedAngle{Name: name, Value: v})
	}
	sort.Slice(data.Angles, func(i, j int) bool { return data.Angles[i].Name < data.Angles[j].Name })

	var buf bytes.Buffer
	if err := userPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render summary prompt")
	}
	return buf.String(), nil
}

// formatRupiah renders an amount with dot thousands separators
func formatRupiah(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func buildResponseSchema() *gollem.Parameter {
	text := func(desc string) *gollem.Parameter {
		return &gollem.Parameter{Type: gollem.TypeString, Description: desc, Required: true}
	}
	return &gollem.Parameter{
		Title:       "QuantumSummary",
		Description: "Narrative explanation of a business risk analysis",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"executive_summary":       text("Verdict and overall assessment"),
			"probability_explanation": text("Why the success probability has its value"),
			"risk_breakdown":          text("Root cause, impact and mitigation per risk level"),
			"key_insight":             text("One non-obvious actionable insight"),
			"action_items": {
				Type:        gollem.TypeArray,
				Description: "Prioritized action items",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
			},
		},
	}
}
