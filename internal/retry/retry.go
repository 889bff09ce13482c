package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	retrygo "github.com/avast/retry-go/v4"
)

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	HTTPStatus() int
}

// OnRetryFunc is called before sleeping ahead of the next attempt.
type OnRetryFunc func(attempt int, maxAttempts int, backoff time.Duration, err error)

// Retry executes fn with exponential backoff until it succeeds or maxAttempts is reached.
// The backoff doubles after each failed attempt starting from initialBackoff.
// Non-retryable errors (like 401, 404) return immediately without retry.
func Retry(ctx context.Context, fn func() error, maxAttempts int, initialBackoff time.Duration, onRetry OnRetryFunc) error {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	return retrygo.Do(
		fn,
		retrygo.Context(ctx),
		retrygo.Attempts(uint(maxAttempts)),
		retrygo.LastErrorOnly(true),
		retrygo.RetryIf(func(err error) bool {
			return IsRetryable(err) || IsRateLimited(err)
		}),
		retrygo.DelayType(func(n uint, err error, _ *retrygo.Config) time.Duration {
			return Backoff(initialBackoff, int(n)+1, err)
		}),
		retrygo.OnRetry(func(n uint, err error) {
			if onRetry != nil {
				attempt := int(n) + 1
				onRetry(attempt, maxAttempts, Backoff(initialBackoff, attempt, err), err)
			}
		}),
	)
}

// Backoff returns the sleep that follows the given failed attempt (1-based).
// Rate limited errors wait twice as long.
func Backoff(initial time.Duration, attempt int, err error) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := initial * time.Duration(1<<(attempt-1))
	if IsRateLimited(err) {
		d *= 2
	}
	return d
}

// IsRetryable returns true if the error is a transient error that should be retried.
// This includes network timeouts and 5xx server errors.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var sc StatusCoder
	if errors.As(err, &sc) && sc.HTTPStatus() > 0 {
		return sc.HTTPStatus() >= http.StatusInternalServerError
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	errStr := err.Error()
	if strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "temporary failure") {
		return true
	}

	return false
}

// IsRateLimited returns true if the error indicates rate limiting (HTTP 429).
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus() == http.StatusTooManyRequests
	}
	return false
}
