package config

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	httpctrl "github.com/qrisq/qrisq/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

// Server holds CLI flags for the HTTP server
type Server struct {
	addr        string
	corsOrigins []string
	upstreamURL string
	metrics     bool
}

// Flags returns CLI flags for HTTP server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8000",
			Category:    "Server",
			Sources:     cli.EnvVars("QRISQ_ADDR"),
			Destination: &s.addr,
		},
		&cli.StringSliceFlag{
			Name:        "cors-origin",
			Usage:       "Allowed CORS origin for /api (repeatable or comma separated)",
			Value:       httpctrl.DefaultCORSOrigins,
			Category:    "Server",
			Sources:     cli.EnvVars("QRISQ_CORS_ORIGINS"),
			Destination: &s.corsOrigins,
		},
		&cli.StringFlag{
			Name:        "upstream-url",
			Usage:       "Serve the web form from a remote analysis service instead of the local pipeline",
			Category:    "Server",
			Sources:     cli.EnvVars("QRISQ_UPSTREAM_URL"),
			Destination: &s.upstreamURL,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics on /metrics",
			Value:       true,
			Category:    "Server",
			Sources:     cli.EnvVars("QRISQ_METRICS"),
			Destination: &s.metrics,
		},
	}
}

// LogValue implements slog.LogValuer
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.addr),
		slog.Any("cors_origins", s.corsOrigins),
		slog.String("upstream_url", s.upstreamURL),
		slog.Bool("metrics", s.metrics),
	)
}

func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) UpstreamURL() string {
	return s.upstreamURL
}

func (s *Server) MetricsEnabled() bool {
	return s.metrics
}

// CORSOrigins returns the trimmed, non-empty origins
func (s *Server) CORSOrigins() []string {
	var origins []string
	for _, o := range s.corsOrigins {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	return origins
}

// Validate checks the upstream URL, if set
func (s *Server) Validate() error {
	if s.upstreamURL == "" {
		return nil
	}
	u, err := url.Parse(s.upstreamURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return goerr.Wrap(ErrInvalidConfig, "upstream-url must be an absolute http(s) URL",
			goerr.V(FlagKey, "upstream-url"), goerr.V(ValueKey, s.upstreamURL))
	}
	return nil
}
