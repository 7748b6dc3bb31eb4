package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"idreview/internal/resilience"
)

// ErrorKind separates failures that never reached the server from server rejections.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindAPI       ErrorKind = "api"
)

// RemoteError is returned by every gateway operation on failure.
// Status is 0 for transport failures.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("gateway %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("gateway %s (status %d): %s", e.Op, e.Status, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text shown to the user: the server's detail or the transport failure.
func (e *RemoteError) UserMessage() string {
	return e.Message
}

// Kind reports whether the failure was a transport or an API error.
func (e *RemoteError) Kind() ErrorKind {
	if e.Status == 0 {
		return KindTransport
	}
	return KindAPI
}

// Retryable reports whether repeating an idempotent request may succeed.
func (e *RemoteError) Retryable() bool {
	switch e.Status {
	case 0:
		return !errors.Is(e.Err, context.Canceled) && !errors.Is(e.Err, context.DeadlineExceeded)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func newTransportError(op string, err error) *RemoteError {
	msg := err.Error()
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		msg = "request timed out"
	}
	return &RemoteError{Op: op, Message: msg, Err: err}
}

// newAPIError reads the server's "detail" message, falling back to a status-derived one.
func newAPIError(op string, status int, body []byte) *RemoteError {
	return &RemoteError{Op: op, Status: status, Message: detailMessage(status, body)}
}

func detailMessage(status int, body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil && strings.TrimSpace(detail) != "" {
			return detail
		}
	}
	return "API Error: " + statusText(status)
}

func statusText(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}

// classify maps gateway errors for the resilience executor.
// 4xx responses are the caller's fault and do not count against the breaker.
func classify(err error) resilience.Verdict {
	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		return resilience.Verdict{RecordFailure: true}
	}
	if remoteErr.Status >= 400 && remoteErr.Status < 500 {
		return resilience.Verdict{}
	}
	if errors.Is(remoteErr.Err, context.Canceled) {
		return resilience.Verdict{}
	}
	return resilience.Verdict{Retry: remoteErr.Retryable(), RecordFailure: true}
}
