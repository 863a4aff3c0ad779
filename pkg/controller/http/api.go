package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/domain/interfaces"
	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/types"
	"github.com/qrisq/qrisq/pkg/usecase"
	"github.com/qrisq/qrisq/pkg/utils/errutil"
	"github.com/qrisq/qrisq/pkg/utils/logging"
	"github.com/qrisq/qrisq/pkg/utils/safe"
)

// Version is reported by the API banner
var Version = "1.0.0"

const maxRequestBody = 1 << 20

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":            "healthy",
		"quantum_simulator": "ready",
	})
}

func bannerHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"message": "Welcome to Q-RISQ API",
		"version": Version,
	})
}

func analyzeHandler(uc AnalysisUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.AnalyzeRequest
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
		if err := decoder.Decode(&req); err != nil {
			logging.From(ctx).Warn("malformed analyze request", "error", err.Error())
			errutil.WriteJSONError(w, http.StatusUnprocessableEntity, "request body must be a JSON object with a description field")
			return
		}

		analysis, err := uc.Analyze(ctx, &req)
		if err != nil {
			if errors.Is(err, model.ErrInvalidRequest) {
				logging.From(ctx).Warn("rejected analyze request", "error", err.Error())
				errutil.WriteJSONError(w, http.StatusUnprocessableEntity, validationDetail(err))
				return
			}
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(w, r, http.StatusOK, analysis.Response)
	}
}

// validationDetail turns a validation error into a client facing message
func validationDetail(err error) string {
	switch {
	case errors.Is(err, model.ErrDescriptionTooShort):
		return "description must be at least " + strconv.Itoa(model.MinDescriptionLength) + " characters"
	case errors.Is(err, model.ErrInvalidProvider):
		return "model_provider must be one of: " + providerList()
	default:
		return "invalid request"
	}
}

func providerList() string {
	var names []string
	for _, p := range types.AllModelProviders() {
		names = append(names, p.String())
	}
	return strings.Join(names, ", ")
}

type analysisRecord struct {
	ID               model.AnalysisID       `json:"analysis_id"`
	Description      string                 `json:"description"`
	Provider         types.ModelProvider    `json:"provider"`
	ExtractionMethod types.ExtractionMethod `json:"extraction_method,omitempty"`
	Cached           bool                   `json:"cached"`
	DurationMS       int64                  `json:"duration_ms"`
	CreatedAt        time.Time              `json:"created_at"`
	Response         *model.AnalyzeResponse `json:"response,omitempty"`
}

type analysisSummary struct {
	ID                 model.AnalysisID    `json:"analysis_id"`
	Description        string              `json:"description"`
	Provider           types.ModelProvider `json:"provider"`
	Sektor             string              `json:"sektor"`
	SuccessProbability float64             `json:"success_probability"`
	CreatedAt          time.Time           `json:"created_at"`
}

type analysisList struct {
	Analyses []analysisSummary `json:"analyses"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

func getAnalysisHandler(uc AnalysisUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := model.AnalysisID(chi.URLParam(r, "id"))

		analysis, err := uc.Get(ctx, id)
		if errors.Is(err, usecase.ErrAnalysisNotFound) {
			errutil.WriteJSONError(w, http.StatusNotFound, "analysis not found")
			return
		}
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(w, r, http.StatusOK, analysisRecord{
			ID:               analysis.ID,
			Description:      analysis.Description,
			Provider:         analysis.Provider,
			ExtractionMethod: analysis.ExtractionMethod,
			Cached:           analysis.Cached,
			DurationMS:       analysis.Duration.Milliseconds(),
			CreatedAt:        analysis.CreatedAt,
			Response:         analysis.Response,
		})
	}
}

func listAnalysesHandler(uc AnalysisUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := queryInt(r, "limit", usecase.DefaultListLimit)
		if err != nil {
			errutil.WriteJSONError(w, http.StatusUnprocessableEntity, "limit must be an integer")
			return
		}
		offset, err := queryInt(r, "offset", 0)
		if err != nil {
			errutil.WriteJSONError(w, http.StatusUnprocessableEntity, "offset must be an integer")
			return
		}
		limit = max(1, min(limit, usecase.MaxListLimit))
		offset = max(offset, 0)

		var opts []interfaces.ListAnalysisOption
		if v := r.URL.Query().Get("provider"); v != "" {
			provider := types.ModelProvider(v)
			if !provider.IsValid() {
				errutil.WriteJSONError(w, http.StatusUnprocessableEntity, "provider must be one of: "+providerList())
				return
			}
			opts = append(opts, interfaces.WithProvider(provider))
		}
		if v := r.URL.Query().Get("sektor"); v != "" {
			opts = append(opts, interfaces.WithSektor(v))
		}

		analyses, total, err := uc.List(ctx, limit, offset, opts...)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}

		resp := analysisList{
			Analyses: make([]analysisSummary, 0, len(analyses)),
			Total:    total,
			Limit:    limit,
			Offset:   offset,
		}
		for _, a := range analyses {
			item := analysisSummary{
				ID:          a.ID,
				Description: a.Description,
				Provider:    a.Provider,
				CreatedAt:   a.CreatedAt,
			}
			if a.Response != nil {
				item.Sektor = a.Response.ExtractedVariables.Sektor
				item.SuccessProbability = a.Response.SuccessProbability
			}
			resp.Analyses = append(resp.Analyses, item)
		}

		writeJSON(w, r, http.StatusOK, resp)
	}
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid query parameter", goerr.V("key", key), goerr.V("value", v))
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}
