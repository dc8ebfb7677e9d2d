package fizzy

import (
	"time"
)

// Logger is the structured logging hook used by the HTTP layer. The CLI
// wires a zerolog-backed implementation; library users can supply their own
// or leave it nil to disable logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Fizzy client.
//
// # Retry resolution
//
// Retry parameters resolve in precedence order: explicit Config value, then
// environment variable (FIZZY_MAX_RETRIES, FIZZY_RETRY_DELAY), then the
// defaults (3 retries, 1s initial delay, 32s cap, factor 2). BaseURL falls
// back to FIZZY_BASE_URL the same way.
//
// # Caching
//
// Responses to idempotent GETs are cached in memory for the client's
// lifetime and revalidated with If-None-Match. Set Cache.Type to "none" to
// disable.
type Config struct {
	// BaseURL is the API origin (e.g. "https://app.fizzy.do"). Normalized by
	// trimming a trailing slash and adding "https://" if no scheme is
	// present.
	BaseURL string

	// Account is the account slug that prefixes resource paths. Paths under
	// reserved account-independent namespaces (identity, session) are not
	// prefixed.
	Account string

	// Credential is the bearer or session token. The client never mutates
	// or refreshes it.
	Credential Credential

	// HTTPTimeout is the per-request transport timeout. Zero uses the
	// default (30s). Context deadlines still apply per call.
	HTTPTimeout time.Duration

	// MaxRetries is the retry budget for transient failures (429, 5xx,
	// connection errors). Negative means "use default"; zero disables
	// retries.
	MaxRetries int
	// RetryDelay is the initial backoff delay.
	RetryDelay time.Duration
	// RetryMaxDelay caps the backoff delay.
	RetryMaxDelay time.Duration

	// Cache configures the response cache. Nil uses the in-memory default.
	Cache *CacheConfig

	// Debug enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug bool
	// Logger is the optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// NewConfig returns a Config with MaxRetries marked unset so the
// env-then-default resolution applies.
func NewConfig() *Config {
	return &Config{MaxRetries: -1}
}
