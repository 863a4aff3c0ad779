package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/client"
	"github.com/qrisq/qrisq/pkg/domain/interfaces"
	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/types"
	"github.com/qrisq/qrisq/pkg/report"
	"github.com/qrisq/qrisq/pkg/repository/memory"
	"github.com/qrisq/qrisq/pkg/utils/logging"
	"github.com/qrisq/qrisq/pkg/utils/safe"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var errNoInput = goerr.New("no scenario description given")

// analyzeInput is one scenario to analyze. Source is the file path or "args".
type analyzeInput struct {
	Source      string
	Description string
}

// analyzeOutput pairs an input with its result. Exactly one of Response and Err is set.
type analyzeOutput struct {
	Source   string                 `json:"source"`
	Response *model.AnalyzeResponse `json:"result,omitempty"`
	Err      error                  `json:"-"`
	Error    string                 `json:"error,omitempty"`
}

func cmdAnalyze() *cli.Command {
	var (
		pipeline    pipelineConfig
		url         string
		local       bool
		provider    string
		format      string
		files       []string
		output      string
		concurrency int
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "url",
			Usage:       "Base URL of a running analysis service (in-process pipeline when empty)",
			Category:    "Analyze",
			Sources:     cli.EnvVars("QRISQ_API_URL"),
			Destination: &url,
		},
		&cli.BoolFlag{
			Name:        "local",
			Usage:       "Force the in-process pipeline even when --url is set",
			Category:    "Analyze",
			Destination: &local,
		},
		&cli.StringFlag{
			Name:        "provider",
			Usage:       "Model provider for this run (groq or gemini)",
			Category:    "Analyze",
			Destination: &provider,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format (text or json)",
			Value:       formatText,
			Category:    "Analyze",
			Destination: &format,
		},
		&cli.StringSliceFlag{
			Name:        "file",
			Usage:       "File holding one scenario description (repeatable)",
			Category:    "Analyze",
			Destination: &files,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file path (- for stdout)",
			Value:       "-",
			Category:    "Analyze",
			Destination: &output,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Maximum number of analyses running at once",
			Value:       4,
			Category:    "Analyze",
			Destination: &concurrency,
		},
	}
	flags = append(flags, pipeline.Flags()...)

	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Analyze one or more business scenario descriptions",
		ArgsUsage: "[DESCRIPTION...]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if format != formatText && format != formatJSON {
				return goerr.New("format must be text or json", goerr.V("format", format))
			}
			modelProvider, err := types.ParseModelProvider(provider)
			if err != nil {
				return goerr.Wrap(err, "invalid --provider")
			}

			inputs, err := collectInputs(c.Args().Slice(), files)
			if err != nil {
				return err
			}

			var analyzer interfaces.Analyzer
			if url != "" && !local {
				remote, err := client.New(url)
				if err != nil {
					return goerr.Wrap(err, "failed to create analysis client")
				}
				analyzer = remote
				logging.Default().Debug("Analyzing through remote service", "url", url)
			} else {
				repo := memory.New()
				defer safe.Close(ctx, repo)

				uc, err := pipeline.build(ctx, repo)
				if err != nil {
					return err
				}
				analyzer = uc.Analysis.Analyzer()
			}

			results, err := runAnalyses(ctx, analyzer, modelProvider, inputs, concurrency)
			if err != nil {
				return err
			}

			w := io.Writer(os.Stdout)
			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
				}
				defer safe.Close(ctx, f)
				w = f
			}

			if format == formatJSON {
				return writeJSONResults(w, results)
			}
			return writeTextResults(w, results)
		},
	}
}

// collectInputs joins args into one description and reads each file as another
func collectInputs(args, files []string) ([]analyzeInput, error) {
	var inputs []analyzeInput
	if text := strings.TrimSpace(strings.Join(args, " ")); text != "" {
		inputs = append(inputs, analyzeInput{Source: "args", Description: text})
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read scenario file", goerr.V("path", path))
		}
		inputs = append(inputs, analyzeInput{Source: path, Description: string(data)})
	}

	if len(inputs) == 0 {
		return nil, goerr.Wrap(errNoInput, "pass a description as arguments or with --file")
	}
	return inputs, nil
}

// runAnalyses analyzes inputs with at most concurrency in flight. Results keep the input
// order. Rejected requests are recorded per input; any other failure stops the batch.
func runAnalyses(ctx context.Context, analyzer interfaces.Analyzer, provider types.ModelProvider, inputs []analyzeInput, concurrency int) ([]analyzeOutput, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]analyzeOutput, len(inputs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for i, in := range inputs {
		eg.Go(func() error {
			results[i].Source = in.Source
			resp, err := analyzer.Analyze(ctx, &model.AnalyzeRequest{
				Description:   in.Description,
				ModelProvider: provider,
			})
			if errors.Is(err, model.ErrInvalidRequest) {
				results[i].Err = err
				results[i].Error = err.Error()
				return nil
			}
			if err != nil {
				return goerr.Wrap(err, "analysis failed", goerr.V("source", in.Source))
			}
			results[i].Response = resp
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeJSONResults(w io.Writer, results []analyzeOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return goerr.Wrap(err, "failed to write results")
	}
	return nil
}

func writeTextResults(w io.Writer, results []analyzeOutput) error {
	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return goerr.Wrap(err, "failed to write results")
				}
			}
			if _, err := fmt.Fprintf(w, "=== %s ===\n", r.Source); err != nil {
				return goerr.Wrap(err, "failed to write results")
			}
		}

		if r.Err != nil {
			if _, err := fmt.Fprintf(w, "rejected: %s\n", r.Err.Error()); err != nil {
				return goerr.Wrap(err, "failed to write results")
			}
			continue
		}

		if err := report.WriteText(w, report.Build(r.Response)); err != nil {
			return goerr.Wrap(err, "failed to write report")
		}
	}
	return nil
}
