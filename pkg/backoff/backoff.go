// Package backoff implements the capped, jittered exponential backoff the
// agent uses when retrying server calls.
package backoff

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

const logPrefix = "backoff:backoff"

// ExpoBackoff tracks retry attempts for one operation. Delays grow as
// 2^(attempts-3) seconds, capped at max, and are jittered by 0.5–1.5x so a
// fleet of agents does not reconnect in lockstep. Not safe for concurrent
// use; each retry loop owns its own instance.
type ExpoBackoff struct {
	attempts    int
	max         time.Duration
	maxAttempts int

	sleep func(time.Duration)
}

// New creates an ExpoBackoff capped at max per attempt. maxAttempts of zero
// means retry forever.
func New(max time.Duration, maxAttempts int) *ExpoBackoff {
	return &ExpoBackoff{max: max, maxAttempts: maxAttempts, sleep: time.Sleep}
}

// Reset clears the attempt counter after a success.
func (b *ExpoBackoff) Reset() {
	b.attempts = 0
}

// More records a failed attempt and sleeps the backoff delay. When the
// attempt budget is exhausted it returns err instead of sleeping; otherwise
// it returns nil and the caller retries.
func (b *ExpoBackoff) More(err error) error {
	b.attempts++
	if b.maxAttempts > 0 && b.attempts > b.maxAttempts {
		slog.Error(fmt.Sprintf("%s - Giving up after %d attempts on error: %v", logPrefix, b.attempts, err))
		return err
	}

	delay := time.Duration(math.Pow(2, float64(b.attempts-3)) * float64(time.Second))
	if delay > b.max {
		delay = b.max
	}
	delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))

	slog.Error(fmt.Sprintf("%s - Attempt %d - backing off %v: %v", logPrefix, b.attempts, delay, err))
	b.sleep(delay)
	return nil
}
