// Package apperr defines the closed error taxonomy shared by the service
// layer and the HTTP handlers.
//
// Every service operation that fails returns an *Error carrying a Kind
// (which drives the HTTP status) and a machine-readable Code (which names
// the exact business condition). Handlers and clients switch on Kind/Code,
// never on message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation policy and HTTP mapping.
type Kind int

const (
	// KindNotFound means a referenced entity does not exist.
	KindNotFound Kind = iota + 1

	// KindUnauthorized means the caller lacks the required relationship
	// (not owner / not member / not author).
	KindUnauthorized

	// KindInvalidState means the operation is incompatible with the
	// entity's current lifecycle state.
	KindInvalidState

	// KindValidation means a request field is malformed or missing.
	KindValidation

	// KindDependency means a persistence or collaborator call failed.
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidState:
		return "invalid_state"
	case KindValidation:
		return "validation"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Codes name the exact business condition within a kind.
const (
	CodeAlreadyMember    = "already_member"
	CodePrivacyMismatch  = "privacy_mismatch"
	CodeDuplicateRequest = "duplicate_request"
	CodeAlreadyProcessed = "already_processed"
	CodeOwnerCannotLeave = "owner_cannot_leave"
	CodeCannotRemoveOwn  = "cannot_remove_owner"
	CodeNotMember        = "not_member"
	CodeAlreadyLiked     = "already_liked"
	CodeAlreadyDisliked  = "already_disliked"
	CodeNotLiked         = "not_liked"
	CodeNotDisliked      = "not_disliked"
	CodeAlreadyReported  = "already_reported"
	CodeNotOwner         = "not_owner"
	CodeNotAuthor        = "not_author"
	CodeReportOwn        = "cannot_report_own"
	CodeEmailExists      = "email_exists"
	CodeBadCredentials   = "invalid_credentials"
	CodeNotFound         = "not_found"
	CodeInvalidInput     = "invalid_input"
	CodeStorage          = "storage_failure"
)

// Error is the tagged error variant returned by every service operation.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	err     error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.err)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// New creates an error with the given kind, code and message.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap creates an error that records cause for logging and errors.Is
// while presenting the taxonomy to callers.
func Wrap(kind Kind, code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, err: cause}
}

// NotFound builds a KindNotFound error for the named entity.
func NotFound(entity string) *Error {
	return New(KindNotFound, CodeNotFound, entity+" not found")
}

// Unauthorized builds a KindUnauthorized error.
func Unauthorized(code, message string) *Error {
	return New(KindUnauthorized, code, message)
}

// InvalidState builds a KindInvalidState error.
func InvalidState(code, message string) *Error {
	return New(KindInvalidState, code, message)
}

// Validation builds a KindValidation error.
func Validation(message string) *Error {
	return New(KindValidation, CodeInvalidInput, message)
}

// Dependency wraps a failed persistence or collaborator call.
func Dependency(message string, cause error) *Error {
	return Wrap(KindDependency, CodeStorage, message, cause)
}

// KindOf extracts the Kind from err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// CodeOf extracts the Code from err, or "" if err is not an *Error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
