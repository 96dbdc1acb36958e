package services

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP status codes at the handler layer.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrForbidden         = errors.New("permission denied")
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrAlreadyEnrolled   = errors.New("already enrolled")
	ErrInternal          = errors.New("internal error")
)

// NotFoundError carries the resource kind and id alongside ErrNotFound.
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(resource string, id interface{}) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// SubmissionError explains why a submission was rejected.
type SubmissionError struct {
	Reason string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("invalid submission: %s", e.Reason)
}

func (e *SubmissionError) Unwrap() error {
	return ErrInvalidSubmission
}

func NewSubmissionError(format string, args ...interface{}) error {
	return &SubmissionError{Reason: fmt.Sprintf(format, args...)}
}

// PermissionError reports an authorization failure on a specific resource.
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}

func NewPermissionError(userID, resource, action, reason string) error {
	return &PermissionError{UserID: userID, Resource: resource, Action: action, Reason: reason}
}
