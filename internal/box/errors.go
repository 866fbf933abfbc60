// Package box provides an HTTP client for the Box content API with
// automatic retry, rate limiting, and error classification.
package box

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for HTTP status code classification.
// Use errors.Is(err, box.ErrNotFound) to check.
var (
	ErrBadRequest   = errors.New("box: bad request")
	ErrUnauthorized = errors.New("box: unauthorized")
	ErrForbidden    = errors.New("box: forbidden")
	ErrNotFound     = errors.New("box: not found")
	ErrConflict     = errors.New("box: conflict")
	ErrThrottled    = errors.New("box: throttled")
	ErrServerError  = errors.New("box: server error")
)

// APIError wraps a sentinel error with the HTTP status code and the
// fields Box returns in its JSON error body (code, message, request_id).
type APIError struct {
	StatusCode int
	Code       string
	RequestID  string
	Message    string
	Err        error // sentinel, for errors.Is()
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("box: HTTP %d %s (request-id: %s): %s", e.StatusCode, e.Code, e.RequestID, e.Message)
	}

	return fmt.Sprintf("box: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// errorBody mirrors the Box API error JSON exactly.
type errorBody struct {
	Type      string `json:"type"`
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// newAPIError builds an APIError from a non-2xx response body.
// Box error bodies are JSON; anything unparseable is kept verbatim
// in Message so debugging information is never lost.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Message:    string(body),
		Err:        classifyStatus(statusCode),
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Type == "error" {
		apiErr.Code = eb.Code
		apiErr.RequestID = eb.RequestID
		apiErr.Message = eb.Message
	}

	return apiErr
}

// classifyStatus maps an HTTP status code to a sentinel error.
// Returns nil for 2xx success codes.
func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusTooManyRequests:
		return ErrThrottled
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return nil
	}
}

// isRetryable reports whether the given HTTP status code should be retried.
func isRetryable(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
