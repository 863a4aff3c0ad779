package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

// DefaultGroqBaseURL is the OpenAI compatible endpoint of Groq
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// Groq holds configuration for the Groq LLM client
type Groq struct {
	APIKey  string `masq:"secret"`
	model   string
	baseURL string
}

// Flags returns CLI flags for Groq configuration
func (g *Groq) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "groq-api-key",
			Usage:       "Groq API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("QRISQ_GROQ_API_KEY", "GROQ_API_KEY"),
			Destination: &g.APIKey,
		},
		&cli.StringFlag{
			Name:        "groq-model",
			Usage:       "Groq model name",
			Value:       "llama-3.3-70b-versatile",
			Category:    "LLM",
			Sources:     cli.EnvVars("QRISQ_GROQ_MODEL"),
			Destination: &g.model,
		},
		&cli.StringFlag{
			Name:        "groq-base-url",
			Usage:       "Groq API base URL",
			Value:       DefaultGroqBaseURL,
			Category:    "LLM",
			Sources:     cli.EnvVars("QRISQ_GROQ_BASE_URL"),
			Destination: &g.baseURL,
		},
	}
}

// LogAttrs returns log attributes for the Groq configuration
func (g *Groq) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Bool("api_key_set", g.APIKey != ""),
		slog.String("model", g.model),
		slog.String("base_url", g.baseURL),
	}
}

// Configure creates a Groq client through gollem's OpenAI compatible backend.
// Returns nil if no API key is configured.
func (g *Groq) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if g.APIKey == "" {
		return nil, nil
	}

	opts := []openai.Option{
		openai.WithModel(g.model),
	}
	if g.baseURL != "" {
		opts = append(opts, openai.WithBaseURL(g.baseURL))
	}

	client, err := openai.New(ctx, g.APIKey, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Groq client")
	}

	return client, nil
}
