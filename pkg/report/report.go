package report

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/types"
)

// Tone is a presentation class. Renderers map it to colors.
type Tone string

// Gauge tones
const (
	ToneDanger  Tone = "danger"
	ToneWarning Tone = "warning"
	ToneSuccess Tone = "success"
)

// Heatmap cell tones
const (
	HeatLow    Tone = "low"
	HeatMedium Tone = "medium"
	HeatHigh   Tone = "high"
)

// Risk level labels shown next to the gauge
const (
	RiskLabelLow    = "Rendah"
	RiskLabelMedium = "Sedang"
	RiskLabelHigh   = "Tinggi"
)

// Field is a labeled value
type Field struct {
	Label string
	Value string
}

// Cell is one heatmap intensity
type Cell struct {
	Value   float64
	Percent string
	Tone    Tone
	Label   string
}

// Row is one heatmap risk factor
type Row struct {
	Factor string
	Cells  []Cell
}

// Report is the view model of an analysis result shared by the HTML and terminal renderers.
type Report struct {
	AnalysisID string

	Probability float64
	Percent     string
	GaugeTone   Tone
	RiskLabel   string
	Verdict     string

	ImpactLevels []string
	Heatmap      []Row

	High   []string
	Medium []string
	Low    []string

	Recommendations []string
	Variables       []Field
	Metadata        []Field

	HasSummary bool
	Summary    model.QuantumSummary
}

// Build converts resp into a Report. Optional response parts that are absent are left empty.
func Build(resp *model.AnalyzeResponse) *Report {
	if resp == nil {
		return &Report{}
	}

	p := resp.SuccessProbability
	r := &Report{
		AnalysisID:      resp.AnalysisID.String(),
		Probability:     p,
		Percent:         formatPercent(p),
		GaugeTone:       gaugeTone(p),
		RiskLabel:       riskLabel(p),
		Verdict:         verdict(p),
		High:            slices.Clone(resp.RiskCategories.High),
		Medium:          slices.Clone(resp.RiskCategories.Medium),
		Low:             slices.Clone(resp.RiskCategories.Low),
		Recommendations: slices.Clone(resp.Recommendations),
		Variables:       variableFields(resp.ExtractedVariables),
		Metadata:        metadataFields(resp.QuantumMetadata),
	}

	for _, level := range types.AllImpactLevels() {
		r.ImpactLevels = append(r.ImpactLevels, level.String())
	}

	for i, factor := range types.AllRiskFactors() {
		row := Row{Factor: factor.String()}
		for j, level := range types.AllImpactLevels() {
			v := resp.RiskHeatmap[i][j]
			row.Cells = append(row.Cells, Cell{
				Value:   v,
				Percent: formatPercent(v),
				Tone:    heatTone(v),
				Label:   factor.String() + " - " + level.String(),
			})
		}
		r.Heatmap = append(r.Heatmap, row)
	}

	if resp.QuantumSummary != nil {
		r.HasSummary = true
		r.Summary = *resp.QuantumSummary
		r.Summary.ActionItems = slices.Clone(resp.QuantumSummary.ActionItems)
	}

	return r
}

func gaugeTone(p float64) Tone {
	switch {
	case p < 0.4:
		return ToneDanger
	case p < 0.7:
		return ToneWarning
	default:
		return ToneSuccess
	}
}

func riskLabel(p float64) string {
	switch {
	case p >= 0.7:
		return RiskLabelLow
	case p >= 0.5:
		return RiskLabelMedium
	default:
		return RiskLabelHigh
	}
}

func verdict(p float64) string {
	switch {
	case p > 0.7:
		return "OPTIMAL"
	case p > 0.4:
		return "MODERATE"
	default:
		return "HIGH RISK"
	}
}

func heatTone(v float64) Tone {
	switch {
	case v < 0.3:
		return HeatLow
	case v < 0.6:
		return HeatMedium
	default:
		return HeatHigh
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}

func variableFields(v model.ExtractedVariables) []Field {
	fields := []Field{
		{Label: "Modal", Value: FormatModal(v.Modal)},
		{Label: "Sektor", Value: v.Sektor},
		{Label: "Lokasi", Value: v.Lokasi},
		{Label: "Tahun", Value: strconv.Itoa(v.Tahun)},
	}

	optional := []Field{
		{Label: "Target Pasar", Value: v.TargetMarket},
		{Label: "Kompetitor", Value: v.Competitors},
		{Label: "Nilai Unik", Value: v.UniqueValue},
		{Label: "Timeline", Value: v.Timeline},
		{Label: "Model Bisnis", Value: v.BusinessModel},
	}
	for _, f := range optional {
		if strings.TrimSpace(f.Value) != "" {
			fields = append(fields, f)
		}
	}
	if v.TeamSize != nil {
		fields = append(fields, Field{Label: "Ukuran Tim", Value: fmt.Sprintf("%d orang", *v.TeamSize)})
	} else if v.TeamDescription != "" {
		fields = append(fields, Field{Label: "Ukuran Tim", Value: v.TeamDescription})
	}

	return fields
}

func metadataFields(m model.QuantumMetadata) []Field {
	var fields []Field
	if s := m.Simulator(); s != "" {
		fields = append(fields, Field{Label: "Simulator", Value: s})
	}
	if n, ok := m.Shots(); ok {
		fields = append(fields, Field{Label: "Shots", Value: strconv.Itoa(n)})
	}
	if n, ok := m.Qubits(); ok {
		fields = append(fields, Field{Label: "Qubits", Value: strconv.Itoa(n)})
	}
	if n, ok := m.CircuitDepth(); ok {
		fields = append(fields, Field{Label: "Circuit Depth", Value: strconv.Itoa(n)})
	}
	return fields
}

// FormatModal renders an amount in rupiah as millions with Indonesian separators,
// e.g. 1500000000 -> "Rp 1.500 juta", 2500000 -> "Rp 2,5 juta".
func FormatModal(modal float64) string {
	juta := math.Round(modal/1_000_000*1000) / 1000
	whole := math.Trunc(juta)
	frac := math.Round((juta - whole) * 1000)

	s := groupThousands(strconv.FormatFloat(whole, 'f', 0, 64))
	if frac > 0 {
		s += "," + strings.TrimRight(fmt.Sprintf("%03d", int(frac)), "0")
	}
	return "Rp " + s + " juta"
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
