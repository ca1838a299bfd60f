// Package services defines the business logic for profiles, comments and
// likes. This file centralizes the tagged error type returned by every
// service method so that handlers can map failures to HTTP results by kind,
// without inspecting store-specific error types.
package services

import (
	"errors"
	"fmt"

	"github.com/tbourn/go-profile-backend/internal/repo"
)

// Kind classifies a service failure. The string value is also the "type"
// reported in HTTP error payloads.
type Kind string

const (
	// KindValidation means a document violated its collection schema.
	KindValidation Kind = "schema_validation"
	// KindInvalidInput means an application-level precondition failed.
	KindInvalidInput Kind = "invalid_input"
	// KindNotFound means a referenced entity does not exist.
	KindNotFound Kind = "not_found"
	// KindConflict means the request would duplicate existing state.
	KindConflict Kind = "conflict"
	// KindInternal covers everything else, including store connectivity.
	KindInternal Kind = "internal_error"
)

// Error is the single failure type surfaced by the service layer.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind carried by err, KindInternal for untagged errors
// and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Predeclared failures with fixed wording.
var (
	// ErrProfileNotFound is returned when fetching an unknown profile id.
	ErrProfileNotFound = &Error{Kind: KindNotFound, Message: "profile not found"}

	// ErrEmptyComment is returned when none of the comment's content fields
	// or votes is set.
	ErrEmptyComment = &Error{Kind: KindInvalidInput, Message: "atleast a voting or title or description is required"}

	// ErrCommentRefs is returned when the commented profile or the commenter
	// does not exist. Commenting on one's own profile also ends up here.
	ErrCommentRefs = &Error{Kind: KindNotFound, Message: "either profile id or user id doesn't exist"}

	// ErrInvalidFilter is returned for a comment filter outside
	// all, mbti, enneagram and zodiac.
	ErrInvalidFilter = &Error{Kind: KindInvalidInput, Message: "invalid filter option provided"}

	// ErrCommentNotFound is returned when liking an unknown comment.
	ErrCommentNotFound = &Error{Kind: KindNotFound, Message: "comment not found"}

	// ErrUserNotFound is returned when the liking user has no profile.
	ErrUserNotFound = &Error{Kind: KindNotFound, Message: "user not found"}

	// ErrAlreadyLiked is returned when the user already liked the comment.
	ErrAlreadyLiked = &Error{Kind: KindConflict, Message: "comment already liked by the user"}
)

// likeNotFound reports a missing (comment, user) like.
func likeNotFound(commentID, userID int64) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("no like found by user: %d on comment: %d", userID, commentID),
	}
}

// internal wraps an unclassified failure.
func internal(err error) *Error {
	return &Error{Kind: KindInternal, Err: err}
}

// storeErr classifies a write failure: schema violations become
// KindValidation with the adapter's description, anything else is internal.
func storeErr(err error) *Error {
	var se *repo.SchemaError
	if errors.As(err, &se) {
		return &Error{Kind: KindValidation, Message: se.Description(), Err: err}
	}
	return internal(err)
}
