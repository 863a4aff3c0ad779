package cli_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/qrisq/qrisq/pkg/cli"
)

const scenario = "Saya ingin membuka usaha kedai kopi di Bandung dengan modal 150 juta pada tahun 2025."

type batchResult struct {
	Source string          `json:"source"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func TestRun_AnalyzeCommand_JSONBatch(t *testing.T) {
	tmpDir := t.TempDir()
	shortPath := filepath.Join(tmpDir, "short.txt")
	gt.NoError(t, os.WriteFile(shortPath, []byte("terlalu pendek"), 0o600)).Required()
	outPath := filepath.Join(tmpDir, "out.json")

	err := cli.Run(context.Background(), []string{
		"qrisq", "analyze",
		"--mock-simulator",
		"--format", "json",
		"--output", outPath,
		"--file", shortPath,
		scenario,
	}, "test")
	gt.NoError(t, err).Required()

	raw, err := os.ReadFile(outPath)
	gt.NoError(t, err).Required()

	var results []batchResult
	gt.NoError(t, json.Unmarshal(raw, &results)).Required()
	gt.A(t, results).Length(2).Required()

	gt.Value(t, results[0].Source).Equal("args")
	gt.Value(t, results[0].Error).Equal("")
	gt.Bool(t, len(results[0].Result) > 0).True()

	var resp struct {
		SuccessProbability float64 `json:"success_probability"`
		ExtractedVariables struct {
			Lokasi string `json:"lokasi"`
		} `json:"extracted_variables"`
	}
	gt.NoError(t, json.Unmarshal(results[0].Result, &resp)).Required()
	gt.Bool(t, resp.SuccessProbability >= 0 && resp.SuccessProbability <= 1).True()
	gt.Value(t, resp.ExtractedVariables.Lokasi).Equal("Bandung")

	gt.Value(t, results[1].Source).Equal(shortPath)
	gt.String(t, results[1].Error).NotEqual("")
}

func TestRun_AnalyzeCommand_Text(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.txt")

	err := cli.Run(context.Background(), []string{
		"qrisq", "analyze", "--mock-simulator", "--output", outPath, scenario,
	}, "test")
	gt.NoError(t, err).Required()

	raw, err := os.ReadFile(outPath)
	gt.NoError(t, err).Required()
	gt.Bool(t, strings.Contains(string(raw), "Probabilitas Keberhasilan")).True()
	gt.Bool(t, strings.Contains(string(raw), "Risk Heatmap")).True()
}

func TestRun_AnalyzeCommand_NoInput(t *testing.T) {
	err := cli.Run(context.Background(), []string{"qrisq", "analyze", "--mock-simulator"}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_AnalyzeCommand_InvalidFormat(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"qrisq", "analyze", "--mock-simulator", "--format", "yaml", scenario,
	}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_AnalyzeCommand_InvalidProvider(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"qrisq", "analyze", "--mock-simulator", "--provider", "openai", scenario,
	}, "test")
	gt.Value(t, err).NotNil()
}
