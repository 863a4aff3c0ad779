package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/qrisq/qrisq/pkg/domain/types"
	"github.com/qrisq/qrisq/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// LLM groups the inference providers used for extraction and summaries
type LLM struct {
	Groq   Groq
	Gemini Gemini

	provider        string
	extraction      bool
	summary         bool
	summaryLanguage string
}

// Flags returns CLI flags for LLM configuration
func (l *LLM) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "Default model provider when a request names none (groq, gemini)",
			Value:       string(types.ModelProviderGroq),
			Category:    "LLM",
			Sources:     cli.EnvVars("QRISQ_LLM_PROVIDER"),
			Destination: &l.provider,
		},
		&cli.BoolFlag{
			Name:        "llm-extraction",
			Usage:       "Extract variables with the LLM (falls back to regex on failure)",
			Value:       true,
			Category:    "LLM",
			Sources:     cli.EnvVars("QRISQ_LLM_EXTRACTION"),
			Destination: &l.extraction,
		},
		&cli.BoolFlag{
			Name:        "llm-summary",
			Usage:       "Generate a narrative summary with the LLM",
			Value:       true,
			Category:    "LLM",
			Sources:     cli.EnvVars("QRISQ_LLM_SUMMARY"),
			Destination: &l.summary,
		},
		&cli.StringFlag{
			Name:        "summary-language",
			Usage:       "Output language of the narrative summary",
			Value:       "Indonesian",
			Category:    "LLM",
			Sources:     cli.EnvVars("QRISQ_SUMMARY_LANGUAGE"),
			Destination: &l.summaryLanguage,
		},
	}
	flags = append(flags, l.Groq.Flags()...)
	flags = append(flags, l.Gemini.Flags()...)
	return flags
}

// LogValue implements slog.LogValuer
func (l LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", l.provider),
		slog.Bool("extraction", l.extraction),
		slog.Bool("summary", l.summary),
		slog.String("summary_language", l.summaryLanguage),
		slog.Any("groq", slog.GroupValue(l.Groq.LogAttrs()...)),
		slog.Any("gemini", slog.GroupValue(l.Gemini.LogAttrs()...)),
	)
}

// DefaultProvider returns the validated default provider
func (l *LLM) DefaultProvider() (types.ModelProvider, error) {
	p, err := types.ParseModelProvider(l.provider)
	if err != nil {
		return "", goerr.Wrap(ErrInvalidConfig, "invalid llm-provider",
			goerr.V(FlagKey, "llm-provider"), goerr.V(ValueKey, l.provider))
	}
	if p == "" {
		p = types.ModelProviderGroq
	}
	return p, nil
}

func (l *LLM) ExtractionEnabled() bool {
	return l.extraction
}

func (l *LLM) SummaryEnabled() bool {
	return l.summary
}

func (l *LLM) SummaryLanguage() string {
	return l.summaryLanguage
}

// Configure creates a client per configured provider. Providers without credentials are
// absent from the map; analysis then runs on regex extraction without a summary.
func (l *LLM) Configure(ctx context.Context) (map[types.ModelProvider]gollem.LLMClient, error) {
	clients := map[types.ModelProvider]gollem.LLMClient{}

	groq, err := l.Groq.Configure(ctx)
	if err != nil {
		return nil, err
	}
	if groq != nil {
		clients[types.ModelProviderGroq] = groq
	}

	gemini, err := l.Gemini.Configure(ctx)
	if err != nil {
		return nil, err
	}
	if gemini != nil {
		clients[types.ModelProviderGemini] = gemini
	}

	if len(clients) == 0 {
		logging.Default().Warn("No LLM provider configured, using regex extraction without summaries")
	}

	return clients, nil
}
