// Package handlers defines HTTP-layer error types used across all API endpoints.
//
// This file centralizes the symbolic `type` values placed in the error envelope
// (via the `fail()` helper in this package). They give clients a stable,
// machine-readable taxonomy that supplements the human-readable description.
//
// Conventions:
//   - Types are lowercase snake_case.
//   - Transport-level types (bad_request, method_not_allowed, ...) mirror HTTP
//     status semantics.
//   - Service-level types equal services.Kind values and are produced by
//     writeServiceError.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "error": { "type": "conflict", "description": "comment already liked by the user" }
//	}
package handlers

import "github.com/tbourn/go-profile-backend/internal/services"

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeUnavailable      = "service_unavailable"

	// Service kinds:
	ErrCodeSchemaValidation = string(services.KindValidation)
	ErrCodeInvalidInput     = string(services.KindInvalidInput)
)

// Descriptions for internal failures, one per operation.
const (
	msgCreateProfileFailed = "failed to create new profile"
	msgGetProfileFailed    = "failed to fetch profile"
	msgCreateCommentFailed = "failed to create new comment"
	msgListCommentsFailed  = "failed to list comments"
	msgLikeFailed          = "failed to add the like"
	msgUnlikeFailed        = "failed to remove the like"
)
