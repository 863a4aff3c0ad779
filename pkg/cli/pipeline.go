package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/cli/config"
	"github.com/qrisq/qrisq/pkg/domain/interfaces"
	"github.com/qrisq/qrisq/pkg/service/extractor"
	"github.com/qrisq/qrisq/pkg/service/risk"
	"github.com/qrisq/qrisq/pkg/service/summary"
	"github.com/qrisq/qrisq/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// pipelineConfig groups the flags shared by every command that runs analyses in process
type pipelineConfig struct {
	llm       config.LLM
	simulator config.Simulator
	profile   config.Profile
}

func (p *pipelineConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, p.llm.Flags()...)
	flags = append(flags, p.simulator.Flags()...)
	flags = append(flags, p.profile.Flags()...)
	return flags
}

// build wires the analysis pipeline on top of repo. Extra options are applied last.
func (p *pipelineConfig) build(ctx context.Context, repo interfaces.Repository, extra ...usecase.Option) (*usecase.UseCases, error) {
	profile, err := p.profile.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load risk profile")
	}

	provider, err := p.llm.DefaultProvider()
	if err != nil {
		return nil, err
	}

	clients, err := p.llm.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure LLM clients")
	}

	sim, err := p.simulator.Configure(profile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure simulator")
	}

	extractorOpts := []extractor.Option{
		extractor.WithProfile(profile),
		extractor.WithLLMExtraction(p.llm.ExtractionEnabled()),
	}
	summaryOpts := []summary.Option{
		summary.WithLanguage(p.llm.SummaryLanguage()),
	}
	for prov, client := range clients {
		extractorOpts = append(extractorOpts, extractor.WithLLMClient(prov, client))
		summaryOpts = append(summaryOpts, summary.WithLLMClient(prov, client))
	}

	opts := []usecase.Option{
		usecase.WithDefaultProvider(provider),
		usecase.WithExtractor(extractor.New(extractorOpts...)),
		usecase.WithSimulator(sim),
		usecase.WithRiskEngine(risk.New(risk.WithProfile(profile))),
	}
	if p.llm.SummaryEnabled() {
		opts = append(opts, usecase.WithSummarizer(summary.New(summaryOpts...)))
	}
	opts = append(opts, extra...)

	return usecase.New(repo, opts...), nil
}
