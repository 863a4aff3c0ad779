package http

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qrisq/qrisq/pkg/domain/interfaces"
	"github.com/qrisq/qrisq/pkg/domain/model"
)

// AnalysisUseCase is the subset of the analysis use case served over HTTP
type AnalysisUseCase interface {
	Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.Analysis, error)
	Get(ctx context.Context, id model.AnalysisID) (*model.Analysis, error)
	List(ctx context.Context, limit, offset int, opts ...interfaces.ListAnalysisOption) ([]*model.Analysis, int, error)
}

// DefaultCORSOrigins are the development front end origins
var DefaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

type Server struct {
	router        *chi.Mux
	analysisUC    AnalysisUseCase
	webAnalyzer   interfaces.Analyzer
	corsOrigins   []string
	enableMetrics bool
	pages         *pages
}

type Options func(*Server)

// WithWebAnalyzer sets the analyzer behind the HTML form, e.g. a client of a remote service.
// The JSON API always uses the in-process use case.
func WithWebAnalyzer(analyzer interfaces.Analyzer) Options {
	return func(s *Server) {
		s.webAnalyzer = analyzer
	}
}

func WithCORSOrigins(origins []string) Options {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

func WithMetrics(enabled bool) Options {
	return func(s *Server) {
		s.enableMetrics = enabled
	}
}

func New(analysisUC AnalysisUseCase, opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	s := &Server{
		router:        r,
		analysisUC:    analysisUC,
		corsOrigins:   DefaultCORSOrigins,
		enableMetrics: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.webAnalyzer == nil {
		s.webAnalyzer = &localAnalyzer{uc: analysisUC}
	}

	p, err := loadPages()
	if err != nil {
		return nil, err
	}
	s.pages = p

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	if s.enableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		r.Get("/", bannerHandler)
		r.Post("/analyze", analyzeHandler(s.analysisUC))
		r.Get("/analyses", listAnalysesHandler(s.analysisUC))
		r.Get("/analyses/{id}", getAnalysisHandler(s.analysisUC))
	})

	// Web pages
	staticFS, err := fs.Sub(webFS, "web/static")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to bind static dir")
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Get("/", s.landingHandler)
	r.Get("/analyze", s.formHandler)
	r.Post("/analyze", s.submitHandler)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// localAnalyzer serves the web form from the in-process use case
type localAnalyzer struct {
	uc AnalysisUseCase
}

func (a *localAnalyzer) Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.AnalyzeResponse, error) {
	analysis, err := a.uc.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	return analysis.Response, nil
}
