// Package httpapi is the HTTP surface of the server: the chi router, its
// middleware, the JSON handlers and the mapping from domain errors to
// responses.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/dmitrijs2005/crtrstudio/internal/common"
	"github.com/dmitrijs2005/crtrstudio/internal/logging"
)

const msgTimeout = "Request timed out"

// AppHandler is a handler that reports failures by returning them.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

type errorDetail struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

// ErrorWriter renders errors as {"error":{"message":...}}. *common.AppError
// values keep their status and message; anything else becomes a generic 500.
// With exposeStack set the body also carries the error chain and a stack
// trace.
type ErrorWriter struct {
	logger      logging.Logger
	exposeStack bool
}

func NewErrorWriter(logger logging.Logger, exposeStack bool) *ErrorWriter {
	return &ErrorWriter{logger: logger, exposeStack: exposeStack}
}

// MakeHandler adapts an AppHandler to http.HandlerFunc.
func (e *ErrorWriter) MakeHandler(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := handler(w, r); err != nil {
			e.Write(w, r, err)
		}
	}
}

func (e *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := common.MsgInternal

	if appErr, ok := common.AsAppError(err); ok {
		status = appErr.Status
		message = appErr.Message
	} else if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
		message = msgTimeout
	}

	if status >= http.StatusInternalServerError {
		e.logger.Error(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	} else {
		e.logger.Debug(r.Context(), "client error",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}

	body := errorResponse{Error: errorDetail{Message: message}}
	if e.exposeStack {
		body.Error.Stack = fmt.Sprintf("%+v\n\n%s", err, debug.Stack())
	}

	RespondWithJSON(w, status, body)
}
