package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/utils/logging"
)

// GenericMessage is the only error text exposed to clients for server side failures.
const GenericMessage = "analysis failed"

// Handle logs the error with its goerr values and stack, and reports it to Sentry
// when a Sentry client has been initialized.
func Handle(ctx context.Context, err error, msg string) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	// no-op unless sentry.Init was called
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.CaptureException(err)
	}
}

type errorBody struct {
	Detail string `json:"detail"`
}

// HandleHTTP logs the error and writes a JSON error body. For 5xx responses the
// internal error text is replaced by GenericMessage.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	detail := err.Error()
	if statusCode >= http.StatusInternalServerError {
		Handle(ctx, err, "HTTP error")
		detail = GenericMessage
	} else {
		logging.From(ctx).Warn("HTTP client error", "status", statusCode, "error", err.Error())
	}

	WriteJSONError(w, statusCode, detail)
}

// WriteJSONError writes {"detail": detail} with the given status.
func WriteJSONError(w http.ResponseWriter, statusCode int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{Detail: detail})
}
