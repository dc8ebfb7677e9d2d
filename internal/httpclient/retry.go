package httpclient

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/fizzy-hq/fizzy-cli/internal/constants"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

// RetryPolicy holds the parameters of the backoff algorithm. The zero value
// is not useful; construct via DefaultRetryPolicy or ResolveRetryPolicy.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the initial attempt, so
	// MaxRetries+1 total tries.
	MaxRetries int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the pre-jitter delay.
	MaxDelay time.Duration

	// BackoffFactor is the exponential growth factor between attempts.
	BackoffFactor float64
}

// DefaultRetryPolicy returns the hardcoded defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    constants.DefaultMaxRetries,
		InitialDelay:  constants.DefaultRetryDelay,
		MaxDelay:      constants.DefaultRetryMaxDelay,
		BackoffFactor: constants.RetryBackoffFactor,
	}
}

// ResolveRetryPolicy applies the precedence order: explicit config value,
// then environment variable, then default. A negative MaxRetries in the
// config means "unset".
func ResolveRetryPolicy(config *fizzy.Config) RetryPolicy {
	policy := DefaultRetryPolicy()

	switch {
	case config != nil && config.MaxRetries >= 0:
		policy.MaxRetries = config.MaxRetries
	default:
		if value, err := strconv.Atoi(os.Getenv(constants.EnvMaxRetries)); err == nil && value >= 0 {
			policy.MaxRetries = value
		}
	}

	switch {
	case config != nil && config.RetryDelay > 0:
		policy.InitialDelay = config.RetryDelay
	default:
		if millis, err := strconv.Atoi(os.Getenv(constants.EnvRetryDelay)); err == nil && millis > 0 {
			policy.InitialDelay = time.Duration(millis) * time.Millisecond
		}
	}

	if config != nil && config.RetryMaxDelay > 0 {
		policy.MaxDelay = config.RetryMaxDelay
	}

	return policy
}

// CheckRetry classifies a request outcome as retryable or terminal. It is
// the pure core of the retry loop: network-level failures and 429/5xx
// responses retry, everything else is terminal. Context cancellation always
// stops the loop.
func CheckRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return true, nil
	}

	if resp == nil {
		return true, nil
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return true, nil
	}

	return false, nil
}

// Backoff computes the delay before retry number attempt (0-based). A
// numeric Retry-After header takes priority over the backoff math;
// otherwise the delay is the capped exponential with up to 10% additive
// jitter, so it grows monotonically until the cap and never exceeds
// MaxDelay × 1.1.
func (p RetryPolicy) Backoff(attempt int, resp *http.Response) time.Duration {
	if resp != nil {
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	base := float64(p.InitialDelay) * math.Pow(p.BackoffFactor, float64(attempt))
	if capped := float64(p.MaxDelay); base > capped {
		base = capped
	}

	jitter := 1 + rand.Float64()*0.1 //nolint:gosec // jitter does not need crypto randomness

	return time.Duration(base * jitter)
}
