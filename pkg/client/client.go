package client

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/domain/interfaces"
	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/utils/logging"
	"github.com/qrisq/qrisq/pkg/utils/safe"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/analyze_response.json
var responseSchemaJSON []byte

var responseSchema = mustLoadSchema(responseSchemaJSON)

// ErrAnalysisFailed is returned (wrapped) for every failure after the request was validated
var ErrAnalysisFailed = goerr.New("analysis failed")

// Context keys for error values
const (
	StatusCodeKey = "status_code"
	DetailKey     = "detail"
	URLKey        = "url"
)

const (
	DefaultTimeout = 120 * time.Second
	analyzePath    = "/api/analyze"
	maxBodySize    = 4 << 20
)

var _ interfaces.Analyzer = (*Client)(nil)

// Client calls a remote analysis service. It never retries.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    *time.Duration
}

type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. The given client is never modified.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout sets the per-request timeout. It applies regardless of option order.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = &d
	}
}

// New creates a client for the service rooted at baseURL, e.g. http://localhost:8000
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, goerr.Wrap(err, "invalid base URL", goerr.V(URLKey, baseURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, goerr.New("base URL must be http or https", goerr.V(URLKey, baseURL))
	}

	c := &Client{
		endpoint: u.JoinPath(analyzePath).String(),
	}
	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.httpClient == nil:
		timeout := DefaultTimeout
		if c.timeout != nil {
			timeout = *c.timeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	case c.timeout != nil:
		hc := *c.httpClient
		hc.Timeout = *c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

// Analyze posts req to the service. Requests that fail local validation return the
// validation error without any network I/O.
func (c *Client) Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.AnalyzeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, goerr.Wrap(ErrAnalysisFailed, "failed to encode request", goerr.V("error", err.Error()))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(ErrAnalysisFailed, "failed to build request", goerr.V("error", err.Error()))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	logging.From(ctx).Debug("sending analysis request", "url", c.endpoint, "provider", req.ModelProvider.String())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, goerr.Wrap(ErrAnalysisFailed, "request failed",
			goerr.V(URLKey, c.endpoint), goerr.V("error", err.Error()))
	}
	defer safe.Close(ctx, resp.Body)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, goerr.Wrap(ErrAnalysisFailed, "failed to read response",
			goerr.V(StatusCodeKey, resp.StatusCode), goerr.V("error", err.Error()))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerr.Wrap(ErrAnalysisFailed, "analysis service returned an error",
			goerr.V(StatusCodeKey, resp.StatusCode), goerr.V(DetailKey, errorDetail(raw)))
	}

	if err := validateResponse(raw); err != nil {
		return nil, goerr.Wrap(ErrAnalysisFailed, "response does not match the contract",
			goerr.V("error", err.Error()))
	}

	var out model.AnalyzeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, goerr.Wrap(ErrAnalysisFailed, "failed to decode response", goerr.V("error", err.Error()))
	}

	return &out, nil
}

func validateResponse(raw []byte) error {
	result, err := responseSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return goerr.Wrap(err, "response is not valid JSON")
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}
	return goerr.New("schema validation failed", goerr.V("violations", violations))
}

// errorDetail extracts {"detail": ...} from an error body, falling back to the raw text
func errorDetail(raw []byte) string {
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != nil {
		if s, ok := body.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(body.Detail); err == nil {
			return string(b)
		}
	}

	s := strings.TrimSpace(string(raw))
	if len(s) > 256 {
		s = s[:256]
	}
	return s
}

func mustLoadSchema(data []byte) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		panic("invalid embedded response schema: " + err.Error())
	}
	return schema
}
