package yabackoff

import (
	"context"
	"time"
)

// Exponential is a back-off that multiplies the delay by a constant factor
// each time Next() is called, capping at maxInterval.
//
// Example:
//
//	backoff := yabackoff.NewExponential(100*time.Millisecond, 2, time.Second, 0)
//	fmt.Println(backoff.Next()) // 100 ms
//	fmt.Println(backoff.Next()) // 200 ms
//	fmt.Println(backoff.Next()) // 400 ms
//	fmt.Println(backoff.Next()) // 800 ms
//	fmt.Println(backoff.Next()) // 1 s (capped)
//
// When resetAfter is positive, a call to Next that arrives more than
// Current()+resetAfter after the previous one starts again from the initial interval.
//
// The zero value of Exponential is usable: on first use the package defaults
// are substituted.
type Exponential struct {
	initialInterval time.Duration
	multiplier      float64
	maxInterval     time.Duration
	resetAfter      time.Duration
	currentInterval time.Duration
	started         bool
	lastCall        time.Time
}

// NewExponential creates a new exponential back-off. Any zero argument except
// resetAfter is replaced by the corresponding package default.
func NewExponential(
	initialInterval time.Duration,
	multiplier float64,
	maxInterval time.Duration,
	resetAfter time.Duration,
) Exponential {
	return Exponential{
		initialInterval: initialInterval,
		multiplier:      multiplier,
		maxInterval:     maxInterval,
		resetAfter:      resetAfter,
		currentInterval: initialInterval,
	}
}

// Reset sets currentInterval back to the initial value.
func (e *Exponential) Reset() {
	e.currentInterval = e.initialInterval
	e.started = false
}

// Next returns the next delay and advances the internal state.
func (e *Exponential) Next() time.Duration {
	e.safety()

	now := time.Now()

	if e.started && e.resetAfter > 0 && now.Sub(e.lastCall) >= e.currentInterval+e.resetAfter {
		e.Reset()
	}

	if e.started {
		e.incrementCurrentInterval()
	}

	e.started = true
	e.lastCall = now

	return e.currentInterval
}

// Current reports the delay returned by the most recent call to Next.
func (e *Exponential) Current() time.Duration {
	return e.currentInterval
}

// Wait sleeps for Next().
func (e *Exponential) Wait() {
	time.Sleep(e.Next())
}

// WaitContext sleeps for Next() and returns ctx.Err() if ctx ends first.
func (e *Exponential) WaitContext(ctx context.Context) error {
	timer := time.NewTimer(e.Next())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// incrementCurrentInterval multiplies currentInterval by multiplier, clamping
// at maxInterval.
func (e *Exponential) incrementCurrentInterval() {
	if e.currentInterval >= e.maxInterval {
		e.currentInterval = e.maxInterval

		return
	}

	e.currentInterval = min(time.Duration(float64(e.currentInterval)*e.multiplier), e.maxInterval)
}

// safety lazily substitutes defaults the first time the struct is used, so a
// zero value Exponential is fully functional.
func (e *Exponential) safety() {
	if e.initialInterval == 0 {
		e.initialInterval = DefaultInitialInterval
		e.currentInterval = DefaultInitialInterval
	}

	if e.maxInterval == 0 {
		e.maxInterval = DefaultMaxInterval
	}

	if e.multiplier == 0 {
		e.multiplier = DefaultMultiplier
	}
}
