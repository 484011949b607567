package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryableError marks a fetch failure as transient. After, when positive, is
// the wait the server asked for (a Retry-After header on 429 or 503).
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy bounds how often and how long a registry or lockfile fetch is
// retried.
type Policy struct {
	// Attempts is the total number of calls, including the first.
	Attempts int
	// Delay is the wait before the second call; it doubles afterwards.
	Delay time.Duration
	// MaxDelay caps any single wait, including server-requested ones.
	// Zero means no cap.
	MaxDelay time.Duration
}

// DefaultPolicy is used by the registry and lockfile clients: three calls,
// one second apart and doubling, never waiting more than 30 seconds.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second, MaxDelay: 30 * time.Second}

// Do runs fn until it succeeds, returns an error not wrapped in
// [RetryableError], or the attempts run out. It returns the last error, or
// ctx.Err() when the context ends during a wait.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := max(delay, re.After)
		if p.MaxDelay > 0 {
			wait = min(wait, p.MaxDelay)
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return lastErr
}

// Retry runs fn under a [Policy] of attempts calls starting at delay.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Policy{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}

// RetryWithBackoff runs fn under [DefaultPolicy].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultPolicy.Do(ctx, fn)
}

// RetryAfter parses a Retry-After header value, either delay-seconds or an
// HTTP date. It returns 0 for empty, malformed or past values.
func RetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(max(secs, 0)) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		return max(at.Sub(now), 0)
	}
	return 0
}
