// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/moviequotes/quote-service/internal/domain"
	"github.com/moviequotes/quote-service/internal/platform/logging"
)

// HeaderTraceID carries the trace ID of a failed request. The error body
// itself never carries it.
const HeaderTraceID = "X-Trace-ID"

// ErrorResponse is the error envelope for every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Client-facing error messages. Internal detail is only ever logged.
const (
	MessageNoQuotes         = "No quotes found"
	MessageFetchFailed      = "Could not fetch random quote"
	MessageInternal         = "Internal server error"
	MessageRouteNotFound    = "Not found"
	MessageMethodNotAllowed = "Method not allowed"
)

// NewErrorResponse creates an error envelope with the given message.
func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Error: message}
}

// MapError maps a domain error to an HTTP status and error envelope.
// Store failures and unknown errors map to 500 with a generic message.
func MapError(err error) (int, *ErrorResponse) {
	switch {
	case err == nil:
		return http.StatusOK, nil
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(MessageNoQuotes)
	case domain.IsFetchMiss(err):
		return http.StatusInternalServerError, NewErrorResponse(MessageFetchFailed)
	default:
		return http.StatusInternalServerError, NewErrorResponse(MessageInternal)
	}
}

// HandleError writes the mapped error response and logs server-side failures
// with the full error chain.
func HandleError(c *gin.Context, err error) {
	status, resp := MapError(err)
	if resp == nil {
		return
	}

	traceID := GetTraceID(c)
	if traceID != "" {
		c.Header(HeaderTraceID, traceID)
	}

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request failed",
			"error", err.Error(),
			"status", status,
			"trace_id", traceID,
		)
	}

	c.AbortWithStatusJSON(status, resp)
}

// GetTraceID returns the trace ID for the request. An explicit "trace_id"
// value on the gin context wins, then the active span, then the request ID.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
		return ""
	}

	if c.Request == nil {
		return ""
	}

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	if id := c.GetString("request_id"); id != "" {
		return id
	}

	return c.GetHeader("X-Request-ID")
}
