package client

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the client. Every *APIError matches exactly one
// of them through errors.Is.
var (
	// ErrNotFound is returned for 404 responses. It is never retried.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimitExceeded is returned when 429 responses outlast the retry budget.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrServerError is returned when 5xx responses outlast the retry budget.
	ErrServerError = errors.New("upstream server error")

	// ErrTimeoutExceeded is returned when every attempt ran past its deadline.
	ErrTimeoutExceeded = errors.New("attempt timeout exceeded")

	// ErrNetwork is returned for connection-level failures.
	ErrNetwork = errors.New("network error")

	// ErrClientError is returned for 4xx responses other than 404 and 429.
	ErrClientError = errors.New("client error")

	// ErrCanceled is returned when the caller's context ends the request.
	ErrCanceled = errors.New("request canceled")
)

// ErrorClass represents a classification of failed attempts.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassNotFound represents 404 responses.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 rate limit errors.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassTimeout represents attempts that ran past their deadline.
	ErrorClassTimeout ErrorClass = "timeout"

	// ErrorClassNetwork represents connection errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassCanceled represents caller cancellation.
	ErrorClassCanceled ErrorClass = "canceled"
)

// sentinel returns the package error a class maps to.
func (c ErrorClass) sentinel() error {
	switch c {
	case ErrorClassNotFound:
		return ErrNotFound
	case ErrorClassRateLimit:
		return ErrRateLimitExceeded
	case ErrorClassServer:
		return ErrServerError
	case ErrorClassTimeout:
		return ErrTimeoutExceeded
	case ErrorClassNetwork:
		return ErrNetwork
	case ErrorClassCanceled:
		return ErrCanceled
	default:
		return ErrClientError
	}
}

// APIError represents a failed Jikan request with additional context.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	URL        string
	Attempts   int
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("jikan %s error", e.ErrorClass)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's class.
func (e *APIError) Is(target error) bool {
	return target == e.ErrorClass.sentinel()
}

// IsNotFound reports whether err means the resource does not exist upstream.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSoftFailure reports whether err is a transient failure that a caller may
// paper over with fallback data. Not-found and cancellation are not soft.
func IsSoftFailure(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrCanceled)
}

// ClassOf returns the ErrorClass carried by err, or "" if err is not an *APIError.
func ClassOf(err error) ErrorClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorClass
	}
	return ""
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassServer, ErrorClassRateLimit, ErrorClassTimeout:
		return true
	default:
		// 4xx, 404, connection errors and cancellation end the request
		return false
	}
}
