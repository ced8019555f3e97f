package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"github.com/desertthunder/reel/internal/shared"
)

// ErrorKind classifies why a catalog request did not produce data.
type ErrorKind string

const (
	// KindNone is returned by [Classify] for a nil error.
	KindNone ErrorKind = ""
	// KindNetworkUnavailable means the host has no usable network.
	KindNetworkUnavailable ErrorKind = "network_unavailable"
	// KindTransport covers any other failure to get or decode a response.
	KindTransport ErrorKind = "transport"
	// KindUpstreamStatus means the API answered with a non-2xx status.
	KindUpstreamStatus ErrorKind = "upstream_status"
	// KindCancelled means the request was superseded or torn down.
	KindCancelled ErrorKind = "cancelled"
)

// ErrCancelled matches any [Error] of kind [KindCancelled].
var ErrCancelled = errors.New("request cancelled")

// StatusError is a non-2xx answer from the catalog API.
type StatusError struct {
	StatusCode int
	Endpoint   string
	Message    string // status_message from the TMDb error body, if any
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tmdb %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tmdb %s: status %d", e.Endpoint, e.StatusCode)
}

// Is maps a 404 onto [shared.ErrMovieNotFound].
func (e *StatusError) Is(target error) bool {
	return target == shared.ErrMovieNotFound && e.StatusCode == http.StatusNotFound
}

// Error is returned by every [TMDBService] call that fails.
type Error struct {
	Kind     ErrorKind
	Endpoint string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Endpoint, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets callers match [ErrCancelled] and [shared.ErrAPIRequest] without inspecting Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrCancelled:
		return e.Kind == KindCancelled
	case shared.ErrAPIRequest:
		return e.Kind != KindCancelled
	}
	return false
}

// newError wraps err with its classification.
func newError(endpoint string, err error) *Error {
	return &Error{Kind: classifyRaw(err), Endpoint: endpoint, Err: err}
}

// Classify returns the kind of a catalog error. Errors that did not come from
// [TMDBService] are classified by inspecting the error chain.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return classifyRaw(err)
}

func classifyRaw(err error) ErrorKind {
	var statusErr *StatusError
	var dnsErr *net.DNSError

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, ErrCancelled):
		return KindCancelled
	case errors.As(err, &statusErr):
		return KindUpstreamStatus
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETDOWN):
		return KindNetworkUnavailable
	case errors.As(err, &dnsErr) && (dnsErr.IsTemporary || dnsErr.IsTimeout):
		return KindNetworkUnavailable
	default:
		return KindTransport
	}
}

// IsCancelled reports whether err is a cancellation that must never be shown to the user.
func IsCancelled(err error) bool {
	return Classify(err) == KindCancelled
}

// UserMessage returns the text shown in an error state. It is empty for nil and cancelled errors.
func UserMessage(err error) string {
	switch Classify(err) {
	case KindNetworkUnavailable:
		return "No network connection. Check your connection and press r to retry."
	case KindTransport:
		return "Could not reach TMDb. Press r to retry."
	case KindUpstreamStatus:
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			switch statusErr.StatusCode {
			case http.StatusUnauthorized:
				return "TMDb rejected the access token (401). Run `reel setup token`."
			case http.StatusNotFound:
				return "Movie not found (404)."
			case http.StatusTooManyRequests:
				return "TMDb rate limit reached (429). Wait a moment and retry."
			}
			return fmt.Sprintf("TMDb returned an error (status %d). Press r to retry.", statusErr.StatusCode)
		}
		return "TMDb returned an error. Press r to retry."
	default:
		return ""
	}
}
