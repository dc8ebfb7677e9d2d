package fizzy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// ErrorKind identifies the failure class of an APIError. The set is closed:
// every failure the client surfaces is exactly one of these kinds.
type ErrorKind string

const (
	// ErrorKindGeneric covers any API failure without a more specific kind,
	// including network-level failures (Status 0).
	ErrorKindGeneric ErrorKind = "generic"

	// ErrorKindRateLimit is a 429 response.
	ErrorKindRateLimit ErrorKind = "rate_limit"

	// ErrorKindAuthentication is a 401 response.
	ErrorKindAuthentication ErrorKind = "authentication"

	// ErrorKindNotFound is a 404 response.
	ErrorKindNotFound ErrorKind = "not_found"

	// ErrorKindValidation is a 422 response.
	ErrorKindValidation ErrorKind = "validation"
)

// APIError is the single error type raised by the request pipeline. Kind
// determines which optional fields are populated: RetryAfter for rate
// limits, ValidationDetails for validation failures.
type APIError struct {
	Kind    ErrorKind `json:"kind"             yaml:"kind"`
	Status  int       `json:"status"           yaml:"status"`
	Message string    `json:"message"          yaml:"message"`
	Body    []byte    `json:"-"                yaml:"-"`

	// RetryAfter is the server-requested wait in seconds, when a 429
	// response carried a numeric Retry-After header.
	RetryAfter *int `json:"retry_after,omitempty" yaml:"retry_after,omitempty"`

	// ValidationDetails is the parsed response body of a 422, when it was a
	// JSON object.
	ValidationDetails map[string]interface{} `json:"validation_details,omitempty" yaml:"validation_details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}

	return fmt.Sprintf("%s (status: %d)", e.Message, e.Status)
}

// Static errors shared across packages.
var (
	ErrBaseURLRequired    = errors.New("base URL is required")
	ErrAccountRequired    = errors.New("account slug is required")
	ErrNoCredential       = errors.New("no credential configured")
	ErrNoMoreItems        = errors.New("no more items")
	ErrCacheDisabled      = errors.New("cache disabled")
	ErrCacheKeyNotFound   = errors.New("key not found")
	ErrCacheEntryExpired  = errors.New("entry expired")
	ErrUnsupportedCache   = errors.New("unsupported cache type")
	ErrDecodeFailed       = errors.New("response body is not valid JSON")
	ErrUnsupportedFileExt = errors.New("unsupported file type")
)

// classifyStatus maps an HTTP status to its error kind. The mapping is fixed
// and independent of call site.
func classifyStatus(status int) ErrorKind {
	switch status {
	case http.StatusTooManyRequests:
		return ErrorKindRateLimit
	case http.StatusUnauthorized:
		return ErrorKindAuthentication
	case http.StatusNotFound:
		return ErrorKindNotFound
	case http.StatusUnprocessableEntity:
		return ErrorKindValidation
	default:
		return ErrorKindGeneric
	}
}

// ClassifyResponse builds the typed error for a terminal non-2xx response.
// The body is parsed as JSON where possible; a 422 object body becomes
// ValidationDetails, a numeric Retry-After header on a 429 becomes
// RetryAfter, and the message is taken from the body's "error" field when
// present, falling back to the HTTP status text.
func ClassifyResponse(status int, header http.Header, body []byte) *APIError {
	apiErr := &APIError{
		Kind:   classifyStatus(status),
		Status: status,
		Body:   body,
	}

	var parsed map[string]interface{}
	if len(body) > 0 {
		_ = json.Unmarshal(body, &parsed)
	}

	apiErr.Message = messageFromBody(status, parsed)

	switch apiErr.Kind {
	case ErrorKindRateLimit:
		if seconds, err := strconv.Atoi(header.Get("Retry-After")); err == nil {
			apiErr.RetryAfter = &seconds
		}
	case ErrorKindValidation:
		if parsed != nil {
			apiErr.ValidationDetails = parsed
		}
	case ErrorKindGeneric, ErrorKindAuthentication, ErrorKindNotFound:
	}

	return apiErr
}

// NetworkError wraps a transport-level failure (no response at all) as the
// generic kind with status 0, so callers never see an untyped error.
func NetworkError(err error) *APIError {
	return &APIError{
		Kind:    ErrorKindGeneric,
		Status:  0,
		Message: fmt.Sprintf("network error: %v", err),
	}
}

func messageFromBody(status int, parsed map[string]interface{}) string {
	if status == http.StatusBadRequest {
		return "invalid parameters"
	}

	if parsed != nil {
		if msg, ok := parsed["error"].(string); ok && msg != "" {
			return msg
		}
	}

	text := http.StatusText(status)
	if text == "" {
		text = "request failed"
	}

	return text
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return kindOf(err) == ErrorKindNotFound
}

// IsAuthentication checks if the error is an authentication error.
func IsAuthentication(err error) bool {
	return kindOf(err) == ErrorKindAuthentication
}

// IsRateLimit checks if the error is a rate limit error.
func IsRateLimit(err error) bool {
	return kindOf(err) == ErrorKindRateLimit
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return kindOf(err) == ErrorKindValidation
}

func kindOf(err error) ErrorKind {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}

	return ""
}
