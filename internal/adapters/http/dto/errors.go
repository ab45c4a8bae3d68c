// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotes-service/internal/domain"
	"github.com/jsamuelsen/quotes-service/internal/platform/logging"
)

// ErrorResponse is the body of every error response. Error is always a
// human-readable string, e.g. "Quote with id=7 not found".
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
	TraceID string            `json:"traceId,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	ErrorCodeNotFound    = "NOT_FOUND"
	ErrorCodeConflict    = "CONFLICT"
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeBadRequest  = "BAD_REQUEST"
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrorCodeInternal    = "INTERNAL_ERROR"
	ErrorCodeTimeout     = "TIMEOUT"
)

// internalErrorMessage hides internals from clients on unexpected failures.
const internalErrorMessage = "an internal error occurred"

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: message, Code: code}
}

// NewErrorResponseWithDetails creates an error response with field details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Error: message, Code: code, Details: details}
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// MapError maps an error to a status code and body. Domain errors keep
// their own message even when wrapped; unknown errors get a generic one.
func MapError(err error) (int, *ErrorResponse) {
	resp := errorBody(err)
	return HTTPStatusFromCode(resp.Code), resp
}

func errorBody(err error) *ErrorResponse {
	var (
		notFound    *domain.NotFoundError
		conflict    *domain.ConflictError
		validation  *domain.ValidationError
		unavailable *domain.UnavailableError
	)

	switch {
	case errors.As(err, &notFound):
		return NewErrorResponse(ErrorCodeNotFound, notFound.Error())

	case errors.As(err, &conflict):
		return NewErrorResponse(ErrorCodeConflict, conflict.Error())

	case errors.As(err, &validation):
		resp := NewErrorResponse(ErrorCodeValidation, validation.Error())
		if validation.Field != "" {
			resp.Details = map[string]string{validation.Field: validation.Message}
		}

		return resp

	case IsValidationError(err):
		return NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", ValidationErrors(err))

	case errors.Is(err, ErrBinding):
		return NewErrorResponse(ErrorCodeBadRequest, "malformed JSON body")

	case errors.As(err, &unavailable):
		return NewErrorResponse(ErrorCodeUnavailable, unavailable.Error())

	// the request deadline set by the timeout middleware ran out mid-query
	case errors.Is(err, context.DeadlineExceeded):
		return NewErrorResponse(ErrorCodeTimeout, "request timed out")

	default:
		return NewErrorResponse(ErrorCodeInternal, internalErrorMessage)
	}
}

// HandleError writes the mapped error response. Internal errors are
// logged with the full error and the trace ID.
func HandleError(c *gin.Context, err error) {
	status, resp := MapError(err)
	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed",
			slog.Any("error", err),
			slog.Int("status", status),
			slog.String("trace_id", resp.TraceID),
		)
	}

	c.PureJSON(status, resp)
}

// AbortWithError is HandleError for middleware: it also stops the chain.
func AbortWithError(c *gin.Context, status int, code, message string) {
	resp := NewErrorResponse(code, message).WithTraceID(GetTraceID(c))

	c.Abort()

	if c.Writer.Written() {
		return
	}

	c.PureJSON(status, resp)
}

// NotFound writes the not-found response for an entity id taken verbatim
// from the path.
func NotFound(c *gin.Context, entity, rawID string) {
	HandleError(c, domain.NewNotFoundError(entity, rawID))
}

// GetTraceID returns the OpenTelemetry trace ID of the request, if any.
func GetTraceID(c *gin.Context) string {
	if c.Request == nil {
		return ""
	}

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}
