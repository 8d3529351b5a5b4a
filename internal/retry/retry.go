// ABOUTME: Retry policy for feed fetching with exponential backoff
// ABOUTME: Classifies errors as transient and re-runs an operation up to a fixed number of attempts

package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/logging"
	"github.com/harper/rssedit/internal/metrics"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// Options configures Do.
type Options struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// ShouldRetry decides whether err from the given 0-indexed attempt is
	// worth another try.
	ShouldRetry func(err error, attempt int) bool
}

// Option mutates Options.
type Option func(*Options)

// WithMaxAttempts sets the total number of attempts.
func WithMaxAttempts(n int) Option {
	return func(o *Options) { o.MaxAttempts = n }
}

// WithBaseDelay sets the delay before the second attempt.
func WithBaseDelay(d time.Duration) Option {
	return func(o *Options) { o.BaseDelay = d }
}

// WithShouldRetry replaces the classification function.
func WithShouldRetry(fn func(err error, attempt int) bool) Option {
	return func(o *Options) { o.ShouldRetry = fn }
}

func defaults() Options {
	return Options{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		ShouldRetry: func(err error, _ int) bool { return IsRetryable(err) },
	}
}

// Delay returns base * 2^attempt for a 0-indexed attempt.
func Delay(attempt int, base time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return base << uint(attempt)
}

// IsRetryable reports whether err is transient. Transport failures and
// timeouts are retryable. Of the classified errors only FETCH_ERROR is, and
// only when the upstream status is unknown, 5xx, 408 or 429.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if ferr, ok := feederr.As(err); ok {
		if ferr.Kind != feederr.KindFetch {
			return false
		}
		return retryableStatus(ferr.StatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func retryableStatus(code int) bool {
	switch {
	case code == 0:
		return true
	case code >= 500:
		return true
	case code == 408, code == 429:
		return true
	default:
		return false
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, or the
// attempts are used up. There is no delay after the last attempt. When
// attempts run out the last error is returned with "(after N attempts)"
// appended; its kind and status are kept.
func Do[T any](ctx context.Context, fn func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	o := defaults()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 1
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < o.MaxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !o.ShouldRetry(err, attempt) {
			return zero, err
		}
		if attempt == o.MaxAttempts-1 {
			break
		}

		delay := Delay(attempt, o.BaseDelay)
		kind := string(feederr.KindOf(err))
		if kind == "" {
			kind = "transport"
		}
		metrics.Retries.WithLabelValues(kind).Inc()
		logging.WithFields(logging.Fields{
			"attempt": attempt + 1,
			"delay":   delay.String(),
			"kind":    kind,
		}).Warnf("retrying after error: %v", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}

	return zero, annotate(lastErr, o.MaxAttempts)
}

func annotate(err error, attempts int) error {
	if attempts <= 1 {
		return err
	}
	suffix := fmt.Sprintf(" (after %d attempts)", attempts)
	if ferr, ok := feederr.As(err); ok {
		return ferr.WithMessage(ferr.Message + suffix)
	}
	return fmt.Errorf("%w%s", err, suffix)
}
