package model

import (
	"encoding/json"
	"maps"
	"math"
	"slices"

	"github.com/m-mizutani/goerr/v2"
)

// HeatmapSize is the number of risk factors (rows) and impact levels (columns).
const HeatmapSize = 5

// RiskHeatmap holds risk intensity per risk factor (row) and impact level (column).
type RiskHeatmap [HeatmapSize][HeatmapSize]float64

// Validate checks every cell is within [0, 1].
func (h RiskHeatmap) Validate() error {
	for i, row := range h {
		for j, v := range row {
			if v < 0 || v > 1 {
				return goerr.Wrap(ErrInvalidHeatmap, "heatmap cell must be within [0, 1]",
					goerr.V(RowKey, i), goerr.V(ColumnKey, j), goerr.V("value", v))
			}
		}
	}
	return nil
}

// RiskCategories groups risk labels by severity. Order within each group is meaningful.
type RiskCategories struct {
	High   []string `json:"High"`
	Medium []string `json:"Medium"`
	Low    []string `json:"Low"`
}

// MarshalJSON always emits arrays, never null.
func (c RiskCategories) MarshalJSON() ([]byte, error) {
	type plain RiskCategories
	return json.Marshal(plain{
		High:   nonNil(c.High),
		Medium: nonNil(c.Medium),
		Low:    nonNil(c.Low),
	})
}

// Total returns the number of categorized risks.
func (c RiskCategories) Total() int {
	return len(c.High) + len(c.Medium) + len(c.Low)
}

// ExtractedVariables are the structured fields derived from a free text scenario.
// TeamDescription holds the team wording (e.g. "tim kecil") when no head count was given.
type ExtractedVariables struct {
	Modal  float64 `json:"modal"`
	Sektor string  `json:"sektor"`
	Lokasi string  `json:"lokasi"`
	Tahun  int     `json:"tahun"`

	TargetMarket    string `json:"target_market,omitempty"`
	Competitors     string `json:"competitors,omitempty"`
	UniqueValue     string `json:"unique_value,omitempty"`
	Timeline        string `json:"timeline,omitempty"`
	TeamSize        *int   `json:"team_size,omitempty"`
	TeamDescription string `json:"team_description,omitempty"`
	BusinessModel   string `json:"business_model,omitempty"`
}

// QuantumSummary is the optional narrative explanation of an analysis.
type QuantumSummary struct {
	ExecutiveSummary       string   `json:"executive_summary"`
	ProbabilityExplanation string   `json:"probability_explanation"`
	RiskBreakdown          string   `json:"risk_breakdown"`
	KeyInsight             string   `json:"key_insight"`
	ActionItems            []string `json:"action_items"`
}

// AnalyzeResponse is the body returned by POST /api/analyze.
type AnalyzeResponse struct {
	SuccessProbability float64            `json:"success_probability"`
	RiskHeatmap        RiskHeatmap        `json:"risk_heatmap"`
	RiskCategories     RiskCategories     `json:"risk_categories"`
	Recommendations    []string           `json:"recommendations"`
	ExtractedVariables ExtractedVariables `json:"extracted_variables"`
	QuantumSummary     *QuantumSummary    `json:"quantum_summary,omitempty"`
	QuantumMetadata    QuantumMetadata    `json:"quantum_metadata"`
	AnalysisID         AnalysisID         `json:"analysis_id,omitempty"`
}

// Validate checks the numeric invariants of the response.
func (r *AnalyzeResponse) Validate() error {
	if r.SuccessProbability < 0 || r.SuccessProbability > 1 {
		return goerr.Wrap(ErrInvalidProbability, "success probability must be within [0, 1]",
			goerr.V(ProbabilityKey, r.SuccessProbability))
	}
	if err := r.RiskHeatmap.Validate(); err != nil {
		return err
	}
	if m := r.ExtractedVariables.Modal; math.IsInf(m, 0) || math.IsNaN(m) {
		return goerr.Wrap(ErrInvalidModal, "capital amount cannot be encoded",
			goerr.V(ModalKey, m))
	}
	return nil
}

// MarshalJSON keeps recommendations and metadata as empty containers instead of null.
func (r AnalyzeResponse) MarshalJSON() ([]byte, error) {
	type plain AnalyzeResponse
	p := plain(r)
	p.Recommendations = nonNil(p.Recommendations)
	if p.QuantumMetadata == nil {
		p.QuantumMetadata = QuantumMetadata{}
	}
	if p.QuantumSummary != nil && p.QuantumSummary.ActionItems == nil {
		s := *p.QuantumSummary
		s.ActionItems = []string{}
		p.QuantumSummary = &s
	}
	return json.Marshal(p)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Clone returns a deep copy of the response
func (r *AnalyzeResponse) Clone() *AnalyzeResponse {
	if r == nil {
		return nil
	}
	c := *r
	c.RiskCategories = RiskCategories{
		High:   slices.Clone(r.RiskCategories.High),
		Medium: slices.Clone(r.RiskCategories.Medium),
		Low:    slices.Clone(r.RiskCategories.Low),
	}
	c.Recommendations = slices.Clone(r.Recommendations)
	if r.ExtractedVariables.TeamSize != nil {
		size := *r.ExtractedVariables.TeamSize
		c.ExtractedVariables.TeamSize = &size
	}
	if r.QuantumSummary != nil {
		s := *r.QuantumSummary
		s.ActionItems = slices.Clone(r.QuantumSummary.ActionItems)
		c.QuantumSummary = &s
	}
	if r.QuantumMetadata != nil {
		c.QuantumMetadata = make(QuantumMetadata, len(r.QuantumMetadata))
		for k, v := range r.QuantumMetadata {
			c.QuantumMetadata[k] = cloneValue(v)
		}
	}
	return &c
}

func cloneValue(v any) any {
	switch m := v.(type) {
	case map[string]float64:
		return maps.Clone(m)
	case map[string]any:
		cloned := make(map[string]any, len(m))
		for k, inner := range m {
			cloned[k] = cloneValue(inner)
		}
		return cloned
	case []any:
		cloned := make([]any, len(m))
		for i, inner := range m {
			cloned[i] = cloneValue(inner)
		}
		return cloned
	default:
		return v
	}
}
