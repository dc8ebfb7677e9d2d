package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files; they hold
	// tokens, so group/other get nothing.
	ConfigFilePerm = 0600
)

// HTTP timeouts.
const (
	// DefaultHTTPTimeout is the default per-request transport timeout.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick probe operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry defaults, overridable by config then environment.
const (
	// DefaultMaxRetries is the retry budget after the initial attempt.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the initial backoff delay.
	DefaultRetryDelay = 1 * time.Second

	// DefaultRetryMaxDelay caps the backoff delay.
	DefaultRetryMaxDelay = 32 * time.Second

	// RetryBackoffFactor is the exponential backoff multiplier.
	RetryBackoffFactor = 2.0
)

// Environment variable overrides.
const (
	// EnvBaseURL overrides the API base URL.
	EnvBaseURL = "FIZZY_BASE_URL"

	// EnvMaxRetries overrides the retry budget.
	EnvMaxRetries = "FIZZY_MAX_RETRIES"

	// EnvRetryDelay overrides the initial retry delay, in milliseconds.
	EnvRetryDelay = "FIZZY_RETRY_DELAY"
)

// API defaults.
const (
	// DefaultBaseURL is the hosted Fizzy endpoint.
	DefaultBaseURL = "https://app.fizzy.do"

	// DefaultUserAgent identifies the CLI to the API.
	DefaultUserAgent = "fizzy-cli"
)

// Pagination and display limits.
const (
	// StandardPageSize is the server's default page size.
	StandardPageSize = 50
)

// Response handling.
const (
	// ErrorSnippetLength bounds how much of a malformed response body is
	// embedded in a decode error.
	ErrorSnippetLength = 200
)
