// Package outcome waits for the payment form to show a terminal state.
//
// Submitting the form is asynchronous: the page first renders a transient state
// and only later shows one of the outcome markers. A Waiter polls a Surface for
// the expected marker within a budget that depends on whether the outcome needs
// a backend round trip.
package outcome

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/payform/acceptance/internal/config"
	"github.com/payform/acceptance/internal/models"
	"github.com/payform/acceptance/internal/poll"
)

var (
	// ErrTimeout matches any *TimeoutError
	ErrTimeout = errors.New("outcome not observed in time")
	// ErrSurfaceClosed is returned by a Surface whose page or browser is gone.
	// Waiting stops at once when it is seen.
	ErrSurfaceClosed = errors.New("form surface closed")
)

// Surface reports whether an outcome marker is currently visible.
// FieldAny asks about the whole form; any other field scopes the lookup to
// that field's block.
type Surface interface {
	Visible(ctx context.Context, o models.Outcome, f models.Field) (bool, error)
}

// Expectation is one marker a scenario waits for
type Expectation struct {
	Outcome models.Outcome
	Field   models.Field
}

// Expect returns an expectation for o anywhere on the form
func Expect(o models.Outcome) Expectation {
	return Expectation{Outcome: o, Field: models.FieldAny}
}

// ExpectAt returns an expectation for o under field f
func ExpectAt(o models.Outcome, f models.Field) Expectation {
	return Expectation{Outcome: o, Field: f}
}

func (e Expectation) String() string {
	if e.Field == models.FieldAny {
		return e.Outcome.String()
	}
	return fmt.Sprintf("%s at %s", e.Outcome, e.Field)
}

// Observation records a marker that became visible
type Observation struct {
	Outcome  models.Outcome
	Field    models.Field
	Attempts int
	Elapsed  time.Duration
}

// TimeoutError names the outcome that never showed up
type TimeoutError struct {
	Outcome models.Outcome
	Field   models.Field
	Budget  time.Duration
	Elapsed time.Duration
	// Last is the most recent transient surface error, if any
	Last error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("expected %s not visible after %s (budget %s)",
		Expectation{Outcome: e.Outcome, Field: e.Field}, e.Elapsed.Round(time.Millisecond), e.Budget)
	if e.Last != nil {
		msg += fmt.Sprintf(": %v", e.Last)
	}
	return msg
}

func (e *TimeoutError) Unwrap() error { return e.Last }

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// Waiter polls one Surface for outcome markers
type Waiter struct {
	surface Surface
	cfg     config.WaitConfig
	logger  *slog.Logger
}

// NewWaiter creates a waiter for surface using the intervals and budgets of cfg
func NewWaiter(surface Surface, cfg config.WaitConfig, logger *slog.Logger) *Waiter {
	return &Waiter{
		surface: surface,
		cfg:     cfg,
		logger:  logger,
	}
}

// Budget returns how long the waiter waits for o
func (w *Waiter) Budget(o models.Outcome) (time.Duration, error) {
	switch o {
	case models.Success, models.GenericError:
		return w.cfg.BackendTimeout, nil
	case models.FieldFormatError, models.EmptyFieldError, models.ExpiryRangeError, models.ExpiryFormatError:
		return w.cfg.ClientTimeout, nil
	default:
		return 0, fmt.Errorf("%w: %d", models.ErrUnknownOutcome, int(o))
	}
}

// Await waits for o anywhere on the form
func (w *Waiter) Await(ctx context.Context, o models.Outcome) (*Observation, error) {
	return w.AwaitField(ctx, o, models.FieldAny)
}

// AwaitField waits for o under field f
func (w *Waiter) AwaitField(ctx context.Context, o models.Outcome, f models.Field) (*Observation, error) {
	budget, err := w.Budget(o)
	if err != nil {
		return nil, err
	}

	var transient error
	res, err := poll.Until(ctx, poll.Constant(w.cfg.PollInterval, budget), func(ctx context.Context) (bool, error) {
		visible, err := w.surface.Visible(ctx, o, f)
		if errors.Is(err, ErrSurfaceClosed) {
			return false, poll.Permanent(err)
		}
		if err != nil {
			// detached or re-rendering elements; the next check sees the new DOM
			transient = err
			return false, err
		}
		return visible, nil
	})

	if errors.Is(err, poll.ErrExhausted) {
		w.logger.Debug("outcome not observed",
			"outcome", o.String(),
			"field", f.String(),
			"attempts", res.Attempts,
			"elapsed", res.Elapsed,
		)
		return nil, &TimeoutError{
			Outcome: o,
			Field:   f,
			Budget:  budget,
			Elapsed: res.Elapsed,
			Last:    transient,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to await %s: %w", Expectation{Outcome: o, Field: f}, err)
	}

	w.logger.Debug("outcome observed",
		"outcome", o.String(),
		"field", f.String(),
		"attempts", res.Attempts,
		"elapsed", res.Elapsed,
	)

	return &Observation{
		Outcome:  o,
		Field:    f,
		Attempts: res.Attempts,
		Elapsed:  res.Elapsed,
	}, nil
}

// AwaitAll waits for each expectation in order, each with its own budget.
// It stops at the first one that is not observed.
func (w *Waiter) AwaitAll(ctx context.Context, exps []Expectation) ([]Observation, error) {
	observed := make([]Observation, 0, len(exps))
	for _, e := range exps {
		obs, err := w.AwaitField(ctx, e.Outcome, e.Field)
		if err != nil {
			return observed, err
		}
		observed = append(observed, *obs)
	}
	return observed, nil
}
