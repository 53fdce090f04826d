// Package apperr defines the error kinds the HTTP layer maps to status codes.
// Anything that is not one of these kinds is treated as an internal error.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// InternalMessage is the only text a client ever sees for a 5xx.
const InternalMessage = "Internal server error"

// ValidationError is a client mistake: missing or malformed parameters.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// UpstreamError is a failure of a per-project store or another dependency.
type UpstreamError struct {
	Project string
	Op      string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("project %s: %s: %v", e.Project, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// UnauthorizedError means no or invalid credentials.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string { return e.Msg }

// ForbiddenError means valid credentials without the required role.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

// Validation builds a ValidationError.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// MissingFields builds the validation error for absent required fields.
func MissingFields(fields ...string) error {
	return &ValidationError{Msg: "Missing required fields: " + strings.Join(fields, ", ")}
}

// NotFound builds a NotFoundError.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// Upstream wraps err as a failure of op against project.
func Upstream(project, op string, err error) error {
	return &UpstreamError{Project: project, Op: op, Err: err}
}

// StatusCode maps err to an HTTP status. Unknown errors are 500.
func StatusCode(err error) int {
	var (
		ve *ValidationError
		ne *NotFoundError
		ue *UnauthorizedError
		fe *ForbiddenError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ne):
		return http.StatusNotFound
	case errors.As(err, &ue):
		return http.StatusUnauthorized
	case errors.As(err, &fe):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the client-visible message for err. 5xx detail is never exposed.
func PublicMessage(err error) string {
	if StatusCode(err) >= http.StatusInternalServerError {
		return InternalMessage
	}
	return err.Error()
}
