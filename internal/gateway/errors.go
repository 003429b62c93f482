package gateway

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	perrors "github.com/felixgeelhaar/portal/internal/errors"
)

// APIError is a non-2xx response. The body is kept verbatim so callers can
// show whatever the backend said.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte

	// Detail is the backend's "detail" message, if the body carried one.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// ErrorCode maps rejected credentials to the auth family and everything else
// to the gateway status code.
func (e *APIError) ErrorCode() perrors.ErrorCode {
	if e.StatusCode == 401 || e.StatusCode == 403 {
		return perrors.ErrCodeAuthRejected
	}
	return perrors.ErrCodeGatewayStatus
}

// TransportError is a request that never produced a response: connection
// failure, timeout or cancellation.
type TransportError struct {
	Method  string
	URL     string
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s %s: timeout: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) ErrorCode() perrors.ErrorCode {
	if e.Timeout {
		return perrors.ErrCodeGatewayTimeout
	}
	return perrors.ErrCodeGatewayTransport
}

// extractDetail reads the "detail" field FastAPI-style backends put in error
// bodies. Validation errors carry a list; the first message is used.
func extractDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	detail := gjson.GetBytes(body, "detail")
	switch {
	case !detail.Exists():
		return ""
	case detail.IsArray():
		return detail.Get("0.msg").String()
	default:
		return detail.String()
	}
}

// DetailOf returns the backend detail message carried by err, or "".
func DetailOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0 for non-status errors.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}
