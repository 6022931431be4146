package services

import (
	"errors"
	"fmt"
)

var (
	ErrUserExists         = errors.New("an account with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrDuplicateSlug      = errors.New("a course with this slug already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNotEnrolled        = errors.New("user is not enrolled in this course")
	ErrChallengeNotFound  = errors.New("challenge not found")
)

// ValidationError is a user-facing input error. It is reported to the caller
// as is and never logged as a failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AccessDeniedError is returned when a progress gate is closed. Redirect names
// the page the client should show instead.
type AccessDeniedError struct {
	Reason   string
	Redirect string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}

// UpstreamError reports a non-success answer of the email API.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("email api responded %d: %s", e.Status, e.Body)
}
