// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all endpoints,
// including the structured error envelope, the result envelope, and the single
// mapping from service error kinds to HTTP status codes.
//
// Conventions:
//   - All error responses return an ErrorResponse with a stable `type`.
//   - `fail()` centralizes error logging and formatting, ensuring 5xx responses
//     are logged with request context for observability.
//   - `writeServiceError()` is the only place a service error becomes a status.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "error": { "type": "not_found", "description": "profile not found" }
//	}
//
// Example success response:
//
//	HTTP/1.1 201 Created
//	{ "result": "profile created successfully" }
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-profile-backend/internal/domain"
	"github.com/tbourn/go-profile-backend/internal/http/middleware"
	"github.com/tbourn/go-profile-backend/internal/services"
)

// ErrorBody carries the machine-readable type and the human-readable
// description of a failure.
type ErrorBody struct {
	// Stable, machine-readable type (see errors.go constants)
	Type string `json:"type" example:"not_found"`
	// Human-readable description (safe to show to users)
	Description string `json:"description" example:"profile not found"`
}

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// RequestID is echoed from the X-Request-ID header so server logs can be
// correlated with client-side errors.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string    `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Error     ErrorBody `json:"error"`
}

// ResultResponse wraps every non-profile success body.
type ResultResponse struct {
	Result any `json:"result"`
}

// MessageResponse is ResultResponse with a confirmation string, used by the
// Swagger annotations.
type MessageResponse struct {
	Result string `json:"result" example:"profile created successfully"`
}

// CommentsResponse is ResultResponse with a list of comments, used by the
// Swagger annotations.
type CommentsResponse struct {
	Result []domain.Comment `json:"result"`
}

// fail aborts the request with a structured error and logs server-side errors.
//
// Server errors (>=500) are logged using the request-scoped logger from middleware.
func fail(c *gin.Context, status int, typ, desc string) {
	failCause(c, status, typ, desc, nil)
}

// failCause is fail with the underlying error attached to the 5xx log line.
// cause never reaches the response body.
func failCause(c *gin.Context, status int, typ, desc string, cause error) {
	resp := ErrorResponse{
		RequestID: middleware.RequestIDFrom(c),
		Error:     ErrorBody{Type: typ, Description: desc},
	}

	// Log 5xx (server-side) with request-scoped logger
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		ev := lg.Error().
			Int("status", status).
			Str("type", typ).
			Str("description", desc)
		if cause != nil {
			ev = ev.Err(cause)
		}
		ev.Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail().
//
// External packages (e.g., router setup) should call Fail to return
// consistent error envelopes without directly depending on unexported helpers.
func Fail(c *gin.Context, status int, typ, desc string) { fail(c, status, typ, desc) }

// writeServiceError maps a service error onto its HTTP status. The envelope
// type is the error kind. Internal failures (including untagged errors) are
// described with failed, the operation's fixed message, and the cause is only
// logged.
func writeServiceError(c *gin.Context, err error, failed string) {
	kind := services.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		failCause(c, status, string(kind), failed, err)
		return
	}
	fail(c, status, string(kind), err.Error())
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindInvalidInput:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// result writes {"result": v} with the given status.
func result(c *gin.Context, status int, v any) {
	ok(c, status, ResultResponse{Result: v})
}
