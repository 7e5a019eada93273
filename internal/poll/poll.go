// Package poll re-checks a condition until it holds or a budget runs out.
//
// Both suspension points of a scenario use it: the UI waiter polls the page for a
// visual marker, the backend verifier polls the payment store for a committed row.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrExhausted matches any *ExhaustedError
var ErrExhausted = errors.New("poll budget exhausted")

// errPending keeps the backoff loop going while the condition is not yet met
var errPending = errors.New("condition not met")

// Condition reports whether the awaited state has been reached.
// Errors wrapped with Permanent stop polling immediately; any other error is
// remembered and the condition is checked again.
type Condition func(ctx context.Context) (bool, error)

// Policy describes how often a condition is checked and for how long
type Policy struct {
	// Interval is the delay after the first failed check
	Interval time.Duration
	// MaxInterval caps the delay; values above Interval enable exponential growth
	MaxInterval time.Duration
	// Multiplier applies between checks when growing; defaults to 2
	Multiplier float64
	// MaxWait bounds the total time spent polling; zero means no bound
	MaxWait time.Duration
	// MaxAttempts bounds the number of checks; zero means no bound
	MaxAttempts int
}

// Constant returns a policy that checks every interval until maxWait elapses
func Constant(interval, maxWait time.Duration) Policy {
	return Policy{Interval: interval, MaxWait: maxWait}
}

// Exponential returns a policy whose delay doubles from interval up to maxInterval,
// giving up after attempts checks or maxWait, whichever comes first
func Exponential(interval, maxInterval time.Duration, attempts int, maxWait time.Duration) Policy {
	return Policy{
		Interval:    interval,
		MaxInterval: maxInterval,
		Multiplier:  2,
		MaxWait:     maxWait,
		MaxAttempts: attempts,
	}
}

// Validate checks that the policy has a usable interval and at least one bound
func (p Policy) Validate() error {
	if p.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", p.Interval)
	}
	if p.MaxWait <= 0 && p.MaxAttempts <= 0 {
		return errors.New("poll policy needs a max wait or a max attempt count")
	}
	if p.MaxAttempts < 0 || p.MaxWait < 0 {
		return errors.New("poll bounds must not be negative")
	}
	return nil
}

func (p Policy) backOff() backoff.BackOff {
	var b backoff.BackOff
	if p.MaxInterval > p.Interval {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = p.Interval
		exp.MaxInterval = p.MaxInterval
		exp.Multiplier = p.Multiplier
		if exp.Multiplier <= 1 {
			exp.Multiplier = 2
		}
		exp.RandomizationFactor = 0.1
		// the deadline is enforced through the context
		exp.MaxElapsedTime = 0
		exp.Reset()
		b = exp
	} else {
		b = backoff.NewConstantBackOff(p.Interval)
	}
	if p.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1))
	}
	return b
}

// Result describes a finished poll
type Result struct {
	Attempts int
	Elapsed  time.Duration
}

// ExhaustedError is returned when the budget ran out before the condition held
type ExhaustedError struct {
	Attempts int
	Elapsed  time.Duration
	// Last is the error of the final check, nil when that check ran cleanly
	Last error
}

func (e *ExhaustedError) Error() string {
	msg := fmt.Sprintf("condition not met after %d attempts in %s", e.Attempts, e.Elapsed.Round(time.Millisecond))
	if e.Last != nil {
		msg += fmt.Sprintf(" (last error: %v)", e.Last)
	}
	return msg
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Is lets errors.Is(err, ErrExhausted) match
func (e *ExhaustedError) Is(target error) bool { return target == ErrExhausted }

// Permanent marks err as fatal so Until returns it without retrying
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Until checks cond immediately and then according to p until it returns true.
//
// It returns the unwrapped error of a Permanent failure, ctx.Err() when the caller's
// context ends, or an *ExhaustedError when the policy's own bounds are reached.
func Until(ctx context.Context, p Policy, cond Condition) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	pollCtx := ctx
	if p.MaxWait > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, p.MaxWait)
		defer cancel()
	}

	var (
		attempts int
		lastErr  error
		fatal    error
	)
	operation := func() error {
		attempts++
		done, err := cond(pollCtx)
		if err != nil {
			var perm *backoff.PermanentError
			if errors.As(err, &perm) {
				fatal = perm.Err
				return err
			}
			if !(pollCtx.Err() != nil && errors.Is(err, pollCtx.Err())) {
				lastErr = err
			}
			return err
		}
		lastErr = nil
		if !done {
			return errPending
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(p.backOff(), pollCtx))
	res := Result{Attempts: attempts, Elapsed: time.Since(start)}
	switch {
	case err == nil:
		return res, nil
	case fatal != nil:
		return res, fatal
	case ctx.Err() != nil:
		return res, ctx.Err()
	default:
		return res, &ExhaustedError{Attempts: attempts, Elapsed: res.Elapsed, Last: lastErr}
	}
}
