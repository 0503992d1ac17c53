package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every *AppError wraps exactly one of them, so callers can
// test the kind with errors.Is regardless of the message.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("conflict")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrServiceUnavail = errors.New("service unavailable")
	ErrAggregation    = errors.New("rating aggregation failed")
	ErrInternal       = errors.New("internal error")
)

type kind struct {
	sentinel error
	code     string
	status   int
}

// kinds is ordered by lookup priority in HTTPStatus and FromStatus.
var kinds = []kind{
	{ErrNotFound, "NOT_FOUND", http.StatusNotFound},
	{ErrConflict, "CONFLICT", http.StatusConflict},
	{ErrInvalidInput, "INVALID_INPUT", http.StatusBadRequest},
	{ErrUnauthorized, "UNAUTHORIZED", http.StatusUnauthorized},
	{ErrForbidden, "FORBIDDEN", http.StatusForbidden},
	{ErrServiceUnavail, "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},
	{ErrAggregation, "AGGREGATION_FAILED", http.StatusInternalServerError},
	{ErrInternal, "INTERNAL_ERROR", http.StatusInternalServerError},
}

// AppError is what handlers render into the response envelope.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(k kind, message string, cause error) *AppError {
	err := k.sentinel
	if cause != nil {
		err = errors.Join(k.sentinel, cause)
	}
	return &AppError{Code: k.code, Message: message, Status: k.status, Err: err}
}

func kindOf(sentinel error) kind {
	for _, k := range kinds {
		if k.sentinel == sentinel {
			return k
		}
	}
	return kinds[len(kinds)-1]
}

// NotFound reports a missing tour, review, user or booking.
func NotFound(resource, id string) *AppError {
	return newError(kindOf(ErrNotFound), fmt.Sprintf("%s with id %s not found", resource, id), nil)
}

// Conflict reports a uniqueness violation such as a taken email or tour title.
func Conflict(message string) *AppError {
	return newError(kindOf(ErrConflict), message, nil)
}

// InvalidInput reports a malformed request that is not a field validation failure.
func InvalidInput(message string) *AppError {
	return newError(kindOf(ErrInvalidInput), message, nil)
}

// Unauthorized reports bad credentials or a missing or expired token.
func Unauthorized(message string) *AppError {
	return newError(kindOf(ErrUnauthorized), message, nil)
}

// Forbidden reports an authenticated caller without the required role or ownership.
func Forbidden(message string) *AppError {
	return newError(kindOf(ErrForbidden), message, nil)
}

// Unavailable reports a retryable failure.
func Unavailable(message string) *AppError {
	return newError(kindOf(ErrServiceUnavail), message, nil)
}

// Internal hides err from clients behind a generic message.
func Internal(err error) *AppError {
	e := newError(kindOf(ErrInternal), "an internal error occurred", nil)
	e.Err = err
	return e
}

// Aggregation reports a failed rating recomputation for a tour. Post-write
// hooks only log it; a forced recompute returns it as a 500.
func Aggregation(tourID string, err error) *AppError {
	return newError(kindOf(ErrAggregation), fmt.Sprintf("recompute rating for tour %s", tourID), err)
}

// FromStatus rebuilds an *AppError from a response status, as seen by a
// client of this API. 429 maps to ErrServiceUnavail.
func FromStatus(status int, code, message string) *AppError {
	var e *AppError
	switch {
	case status == http.StatusTooManyRequests:
		e = newError(kindOf(ErrServiceUnavail), message, nil)
	case status >= 500 && status != http.StatusServiceUnavailable:
		e = newError(kindOf(ErrInternal), message, nil)
	default:
		e = &AppError{Message: message}
		for _, k := range kinds {
			if k.status == status {
				e = newError(k, message, nil)
				break
			}
		}
	}
	e.Status = status
	if code != "" {
		e.Code = code
	}
	return e
}

// HTTPStatus returns the status code for err. Context deadlines are 503.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}
