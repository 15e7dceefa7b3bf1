// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Backend errors.
	ErrNetworkFailure     = errors.New("network failure")
	ErrApplicationFailure = errors.New("request rejected by backend")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")

	// Session errors.
	ErrNotLoggedIn = errors.New("not logged in")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DefaultUserMessage is shown when a failure carries no message of its own.
const DefaultUserMessage = "Something went wrong"

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// APIError is a response the backend answered with success=false or a
// non-2xx status.
type APIError struct {
	Path       string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Path, e.StatusCode)
}

// Is lets errors.Is match the failure class of an APIError.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrApplicationFailure:
		return true
	case ErrUnauthorized:
		return e.StatusCode == 401
	}
	return false
}

// UserMessage extracts the text a notice should show for err. Backend
// messages win, then UserError messages, then DefaultUserMessage.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	var userErr *UserError
	if errors.As(err, &userErr) && userErr.UserMessage != "" {
		return userErr.UserMessage
	}

	if errors.Is(err, ErrNetworkFailure) {
		return "Network error: backend unreachable"
	}

	return DefaultUserMessage
}

// IsAuthFailure reports whether err means the session is missing or expired.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotLoggedIn)
}
