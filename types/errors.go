// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorKind is the machine-readable classification of a runtime error.
type ErrorKind string

const (
	KindResourceNotFound    ErrorKind = "RESOURCE_NOT_FOUND"
	KindInvalidRequest      ErrorKind = "INVALID_REQUEST"
	KindAuthentication      ErrorKind = "AUTHENTICATION"
	KindInsufficientQuota   ErrorKind = "INSUFFICIENT_QUOTA"
	KindRateLimit           ErrorKind = "RATE_LIMIT"
	KindUpstreamUnavailable ErrorKind = "UPSTREAM_UNAVAILABLE"
	KindUpstreamTimeout     ErrorKind = "UPSTREAM_TIMEOUT"
	KindInternal            ErrorKind = "INTERNAL"
)

// StatusError is implemented by every error in the taxonomy. It exposes the
// HTTP status and the machine-readable kind used by the server surfaces.
type StatusError interface {
	error
	HTTPStatus() int
	Kind() ErrorKind
}

// ResourceNotFoundError reports an unknown agent, session or artifact.
type ResourceNotFoundError struct {
	Resource string
	Message  string
}

func (e *ResourceNotFoundError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.Message)
	}
	return e.Message
}

func (e *ResourceNotFoundError) HTTPStatus() int { return http.StatusNotFound }
func (e *ResourceNotFoundError) Kind() ErrorKind { return KindResourceNotFound }

// InvalidArgumentError reports a schema or validation failure in a request.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string   { return e.Message }
func (e *InvalidArgumentError) HTTPStatus() int { return http.StatusBadRequest }
func (e *InvalidArgumentError) Kind() ErrorKind { return KindInvalidRequest }

// AlreadyExistsError reports an attempt to create a resource whose id is
// already taken.
type AlreadyExistsError struct {
	Message string
}

func (e *AlreadyExistsError) Error() string   { return e.Message }
func (e *AlreadyExistsError) HTTPStatus() int { return http.StatusBadRequest }
func (e *AlreadyExistsError) Kind() ErrorKind { return KindInvalidRequest }

// StaleSessionError reports an append against a session whose stored
// update_time is newer than the caller's view. The caller recovers by
// refetching the session and retrying.
type StaleSessionError struct {
	SessionID   string
	StorageTime time.Time
	SessionTime time.Time
}

func (e *StaleSessionError) Error() string {
	return fmt.Sprintf("session %s is stale: storage updated at %s, session at %s; refetch and retry",
		e.SessionID, e.StorageTime.Format(time.RFC3339Nano), e.SessionTime.Format(time.RFC3339Nano))
}

func (e *StaleSessionError) HTTPStatus() int { return http.StatusConflict }
func (e *StaleSessionError) Kind() ErrorKind { return KindInvalidRequest }

// AuthenticationError reports bad or missing credentials.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string   { return e.Message }
func (e *AuthenticationError) HTTPStatus() int { return http.StatusUnauthorized }
func (e *AuthenticationError) Kind() ErrorKind { return KindAuthentication }

// InsufficientQuotaError reports an exhausted plan or quota.
type InsufficientQuotaError struct {
	Message string
}

func (e *InsufficientQuotaError) Error() string   { return e.Message }
func (e *InsufficientQuotaError) HTTPStatus() int { return http.StatusForbidden }
func (e *InsufficientQuotaError) Kind() ErrorKind { return KindInsufficientQuota }

// RateLimitError reports a rate limited request.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
	}
	return e.Message
}

func (e *RateLimitError) HTTPStatus() int { return http.StatusTooManyRequests }
func (e *RateLimitError) Kind() ErrorKind { return KindRateLimit }

// UpstreamUnavailableError reports an unreachable backing service.
type UpstreamUnavailableError struct {
	Upstream string
	Message  string
}

func (e *UpstreamUnavailableError) Error() string {
	if e.Upstream != "" {
		return fmt.Sprintf("%s unavailable: %s", e.Upstream, e.Message)
	}
	return e.Message
}

func (e *UpstreamUnavailableError) HTTPStatus() int { return http.StatusBadGateway }
func (e *UpstreamUnavailableError) Kind() ErrorKind { return KindUpstreamUnavailable }

// UpstreamTimeoutError reports a timed-out call to a backing service.
type UpstreamTimeoutError struct {
	Message string
	Timeout time.Duration
}

func (e *UpstreamTimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("%s (timeout %s)", e.Message, e.Timeout)
	}
	return e.Message
}

func (e *UpstreamTimeoutError) HTTPStatus() int { return http.StatusGatewayTimeout }
func (e *UpstreamTimeoutError) Kind() ErrorKind { return KindUpstreamTimeout }

// InternalError is the 500 fallback for anything unclassified.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string   { return e.Message }
func (e *InternalError) HTTPStatus() int { return http.StatusInternalServerError }
func (e *InternalError) Kind() ErrorKind { return KindInternal }

// HTTPStatusOf returns the HTTP status for err, unwrapping as needed and
// falling back to 500 for errors outside the taxonomy.
func HTTPStatusOf(err error) int {
	var se StatusError
	if errors.As(err, &se) {
		return se.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// KindOf returns the machine-readable kind for err, unwrapping as needed and
// falling back to [KindInternal] for errors outside the taxonomy.
func KindOf(err error) ErrorKind {
	var se StatusError
	if errors.As(err, &se) {
		return se.Kind()
	}
	return KindInternal
}

// NotImplementedError is the error type for unimplemented behaviour.
type NotImplementedError string

// Error returns a string representation of the [NotImplementedError].
func (e NotImplementedError) Error() string {
	return string(e)
}
