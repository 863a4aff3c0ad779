package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.FgHiBlack)

	toneColors = map[Tone]*color.Color{
		ToneDanger:  color.New(color.FgRed, color.Bold),
		ToneWarning: color.New(color.FgYellow, color.Bold),
		ToneSuccess: color.New(color.FgGreen, color.Bold),
		HeatLow:     color.New(color.FgBlue),
		HeatMedium:  color.New(color.FgYellow),
		HeatHigh:    color.New(color.FgRed),
	}
)

// WriteText renders r for a terminal. Colors follow color.NoColor.
func WriteText(w io.Writer, r *Report) error {
	p := &printer{w: w}

	p.header("Probabilitas Keberhasilan")
	p.printf("  %s  %s\n", toneColors[r.GaugeTone].Sprint(r.Percent), r.Verdict)
	p.printf("  %s %s\n", labelColor.Sprint("Level Risiko:"), r.RiskLabel)
	if r.AnalysisID != "" {
		p.printf("  %s %s\n", labelColor.Sprint("ID:"), r.AnalysisID)
	}

	if r.HasSummary {
		p.header("Ringkasan")
		p.paragraph("Executive Summary", r.Summary.ExecutiveSummary)
		p.paragraph("Key Insight", r.Summary.KeyInsight)
		p.paragraph("Penjelasan Probabilitas", r.Summary.ProbabilityExplanation)
		p.paragraph("Rincian Risiko", r.Summary.RiskBreakdown)
		for i, item := range r.Summary.ActionItems {
			p.printf("  %d. %s\n", i+1, item)
		}
	}

	p.header("Variabel Terdeteksi")
	p.fields(r.Variables)

	p.header("Risk Heatmap")
	p.printf("  %-10s", "")
	for _, level := range r.ImpactLevels {
		p.printf(" %9s", level)
	}
	p.printf("\n")
	for _, row := range r.Heatmap {
		p.printf("  %-10s", row.Factor)
		for _, cell := range row.Cells {
			p.printf(" %s", toneColors[cell.Tone].Sprintf("%9s", cell.Percent))
		}
		p.printf("\n")
	}

	p.header("Kategori Risiko")
	p.category("Tinggi", ToneDanger, r.High)
	p.category("Sedang", ToneWarning, r.Medium)
	p.category("Rendah", ToneSuccess, r.Low)

	if len(r.Recommendations) > 0 {
		p.header("Rekomendasi Strategis")
		for i, rec := range r.Recommendations {
			p.printf("  %d. %s\n", i+1, rec)
		}
	}

	if len(r.Metadata) > 0 {
		p.header("Quantum Metadata")
		p.fields(r.Metadata)
	}

	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) header(title string) {
	p.printf("\n%s\n", headerColor.Sprint(title))
}

func (p *printer) paragraph(label, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	p.printf("  %s\n  %s\n", labelColor.Sprint(label), text)
}

func (p *printer) fields(fields []Field) {
	for _, f := range fields {
		p.printf("  %s %s\n", labelColor.Sprintf("%-14s", f.Label), f.Value)
	}
}

func (p *printer) category(label string, tone Tone, items []string) {
	value := "Tidak ada"
	if len(items) > 0 {
		value = strings.Join(items, ", ")
	}
	p.printf("  %s %s\n", toneColors[tone].Sprintf("%-7s", label), value)
}
