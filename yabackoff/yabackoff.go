// Package yabackoff provides back-off strategies for retry loops, such as an update
// source reconnecting to its broker.
//
// # Quick start
//
//	backoff := yabackoff.NewExponential(500*time.Millisecond, 1.5, 60*time.Second, 0)
//	for {
//	    if err := poll(); err == nil {
//	        backoff.Reset()
//	        continue
//	    }
//	    if err := backoff.WaitContext(ctx); err != nil {
//	        return err
//	    }
//	}
package yabackoff

import (
	"context"
	"time"
)

// Default* constants are applied when the caller provides zero
// values to NewExponential, or when an Exponential is declared
// as a zero value and used without initialisation.
const (
	// DefaultInitialInterval is used when initialInterval == 0.
	DefaultInitialInterval = 500 * time.Millisecond

	// DefaultMultiplier is applied when multiplier == 0.
	DefaultMultiplier = 1.5

	// DefaultMaxInterval is used when maxInterval == 0.
	DefaultMaxInterval = 60 * time.Second
)

// Backoff is the behaviour shared by all back-off strategies in this package.
// Implementations are not safe for concurrent use.
type Backoff interface {
	// Next advances the strategy and returns the delay for this attempt.
	Next() time.Duration

	// Current returns the delay produced by the most recent call to Next, or the
	// initial delay if Next was never called. It never mutates internal state.
	Current() time.Duration

	// Wait sleeps for Next().
	Wait()

	// WaitContext sleeps for Next() or until ctx is done, whichever comes first.
	WaitContext(ctx context.Context) error

	// Reset puts the strategy back to its initial state so that the very next
	// call to Next() will return the initial interval again.
	Reset()
}

var _ Backoff = (*Exponential)(nil)
