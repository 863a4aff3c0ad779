package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/types"
	"github.com/qrisq/qrisq/pkg/report"
	"github.com/qrisq/qrisq/pkg/utils/errutil"
	"github.com/qrisq/qrisq/pkg/utils/logging"
	"github.com/qrisq/qrisq/pkg/utils/safe"
)

//go:embed web
var webFS embed.FS

// User facing messages of the analysis form
const (
	MessageDescriptionTooShort = "Deskripsi terlalu pendek. Minimal 50 karakter untuk analisis akurat."
	MessageAnalysisFailed      = "Terjadi kesalahan saat menghubungi Quantum Engine."
	MessageInvalidProvider     = "Model AI tidak dikenal. Pilih Groq atau Gemini."
)

var examplePrompts = []string{
	"Investasi 500 juta di bisnis F&B Jakarta Selatan tahun 2026 dengan konsep cafe kopi premium",
	"Startup teknologi SaaS di Bandung dengan modal 2 miliar tahun 2027 untuk UMKM",
	"Membuka franchise retail fashion di Surabaya dengan investasi 300 juta tahun 2026",
}

type pages struct {
	tmpl *template.Template
}

func loadPages() (*pages, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(webFS, "web/templates/*.html")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse web templates")
	}
	return &pages{tmpl: tmpl}, nil
}

func (p *pages) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		errutil.Handle(r.Context(), goerr.Wrap(err, "failed to render page", goerr.V("template", name)), "render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, buf.Bytes())
}

type providerOption struct {
	Value    string
	Label    string
	Selected bool
}

type formPage struct {
	Description string
	Providers   []providerOption
	Examples    []string
	MinLength   int
	Error       string
}

type resultPage struct {
	Description string
	Provider    string
	Report      *report.Report
}

func newFormPage(description string, selected types.ModelProvider) formPage {
	if selected == "" {
		selected = types.ModelProviderGroq
	}
	page := formPage{
		Description: description,
		Examples:    examplePrompts,
		MinLength:   model.MinDescriptionLength,
	}
	for _, p := range types.AllModelProviders() {
		page.Providers = append(page.Providers, providerOption{
			Value:    p.String(),
			Label:    p.DisplayName(),
			Selected: p == selected,
		})
	}
	return page
}

func (s *Server) landingHandler(w http.ResponseWriter, r *http.Request) {
	s.pages.render(w, r, http.StatusOK, "index.html", newFormPage("", ""))
}

func (s *Server) formHandler(w http.ResponseWriter, r *http.Request) {
	s.pages.render(w, r, http.StatusOK, "analyze.html", newFormPage("", ""))
}

func (s *Server) submitHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseForm(); err != nil {
		logging.From(ctx).Warn("malformed analysis form", "error", err.Error())
		page := newFormPage("", "")
		page.Error = MessageAnalysisFailed
		s.pages.render(w, r, http.StatusBadRequest, "analyze.html", page)
		return
	}

	description := r.PostForm.Get("description")
	provider := types.ModelProvider(strings.TrimSpace(r.PostForm.Get("model_provider")))
	page := newFormPage(description, provider)

	resp, err := s.webAnalyzer.Analyze(ctx, &model.AnalyzeRequest{
		Description:   description,
		ModelProvider: provider,
	})
	switch {
	case errors.Is(err, model.ErrDescriptionTooShort):
		page.Error = MessageDescriptionTooShort
		s.pages.render(w, r, http.StatusUnprocessableEntity, "analyze.html", page)
		return
	case errors.Is(err, model.ErrInvalidRequest):
		logging.From(ctx).Warn("rejected analysis form", "error", err.Error())
		page.Error = MessageAnalysisFailed
		if errors.Is(err, model.ErrInvalidProvider) {
			page.Error = MessageInvalidProvider
		}
		s.pages.render(w, r, http.StatusUnprocessableEntity, "analyze.html", page)
		return
	case err != nil:
		errutil.Handle(ctx, err, "web analysis failed")
		page.Error = MessageAnalysisFailed
		s.pages.render(w, r, http.StatusBadGateway, "analyze.html", page)
		return
	}

	s.pages.render(w, r, http.StatusOK, "result.html", resultPage{
		Description: description,
		Provider:    provider.DisplayName(),
		Report:      report.Build(resp),
	})
}
