package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any *APIError carrying 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSessionInvalid matches any *APIError carrying 403, 419 or 498.
	ErrSessionInvalid = errors.New("session no longer valid")
	// ErrNotFound matches any *APIError carrying 404 or 405.
	ErrNotFound = errors.New("resource not found")
	// ErrNoRefreshToken is returned by the refresh exchange when the store
	// holds no refresh token. No request reaches the server in that case.
	ErrNoRefreshToken = errors.New("no refresh token stored")
	// ErrRefreshTokenExpired indicates the server rejected the refresh token.
	ErrRefreshTokenExpired = errors.New("refresh token expired or invalid")
)

// Non-standard status codes some gateways use for dead sessions.
const (
	StatusSessionExpired = 419
	StatusInvalidToken   = 498
)

// IsSessionInvalidStatus reports whether code means the session cannot be
// recovered by refreshing.
func IsSessionInvalidStatus(code int) bool {
	switch code {
	case http.StatusForbidden, StatusSessionExpired, StatusInvalidToken:
		return true
	}
	return false
}

// APIError is returned for every non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
	RequestID  string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Is lets callers test an *APIError against the status sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrSessionInvalid:
		return IsSessionInvalidStatus(e.StatusCode)
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusMethodNotAllowed
	}
	return false
}

// StatusCode extracts the HTTP status from err, or 0 when err is not an
// *APIError (transport failures, decode errors).
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// errorBody is the backend's error envelope. "erro" is what the API itself
// sends; "message" shows up when a proxy answers instead.
type errorBody struct {
	Erro    string `json:"erro"`
	Message string `json:"message"`
}

func newAPIError(r *Request, resp *Response, requestID string) *APIError {
	e := &APIError{
		StatusCode: resp.StatusCode,
		Method:     r.Method,
		Path:       r.Path,
		RequestID:  requestID,
		Body:       resp.Body,
	}
	var body errorBody
	if json.Unmarshal(resp.Body, &body) == nil {
		e.Message = body.Erro
		if e.Message == "" {
			e.Message = body.Message
		}
	}
	return e
}
