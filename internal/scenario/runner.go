package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/payform/acceptance/internal/cards"
	"github.com/payform/acceptance/internal/config"
	"github.com/payform/acceptance/internal/database"
	"github.com/payform/acceptance/internal/form"
	"github.com/payform/acceptance/internal/models"
	"github.com/payform/acceptance/internal/outcome"
)

var (
	// ErrAborted is returned by every Run after an environment failure
	ErrAborted = errors.New("run aborted by environment failure")
	// ErrCleanup is returned when a passing scenario could not clean the store
	ErrCleanup = errors.New("cleanup failed")
)

// cleanupTimeout bounds the teardown, which runs even after ctx is done
const cleanupTimeout = 30 * time.Second

// Page is an open payment form
type Page interface {
	outcome.Surface
	Fill(sub models.CardSubmission) error
	Submit() error
	Close() error
}

// OpenFunc opens a fresh payment form of kind
type OpenFunc func(ctx context.Context, kind models.Kind) (Page, error)

// BrowserPages opens pages through a form.Opener
func BrowserPages(opener *form.Opener) OpenFunc {
	return func(ctx context.Context, kind models.Kind) (Page, error) {
		page, err := opener.Open(ctx, kind)
		if err != nil {
			return nil, err
		}
		return page, nil
	}
}

// Verifier checks and clears the payment store
type Verifier interface {
	Expect(ctx context.Context, kind models.Kind, want models.PaymentStatus) error
	ExpectNone(ctx context.Context, kind models.Kind) error
	Cleanup(ctx context.Context) error
}

// Result describes a scenario that ran to completion
type Result struct {
	Scenario string
	Kind     models.Kind
	Seed     int64
	Observed []outcome.Observation
	Record   RecordExpectation
	Elapsed  time.Duration
}

// Runner runs scenarios one after another against the same store
type Runner struct {
	open     OpenFunc
	verifier Verifier
	wait     config.WaitConfig
	logger   *slog.Logger
	seed     func() int64

	mu      sync.Mutex
	aborted error
}

// NewRunner creates a runner; card data is seeded from the clock
func NewRunner(open OpenFunc, verifier Verifier, wait config.WaitConfig, logger *slog.Logger) *Runner {
	return &Runner{
		open:     open,
		verifier: verifier,
		wait:     wait,
		logger:   logger,
		seed:     func() int64 { return time.Now().UnixNano() },
	}
}

// WithSeed makes every run generate card data from seed
func (r *Runner) WithSeed(seed int64) *Runner {
	r.seed = func() int64 { return seed }
	return r
}

// Aborted returns the environment failure that stopped the runner, if any
func (r *Runner) Aborted() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aborted
}

func (r *Runner) abort(cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aborted == nil {
		r.aborted = cause
	}
}

// isEnvironment reports failures that retrying or running the next scenario cannot fix
func isEnvironment(err error) bool {
	return errors.Is(err, database.ErrUnreachable) ||
		errors.Is(err, form.ErrNavigation) ||
		errors.Is(err, outcome.ErrSurfaceClosed)
}

// Run executes sc and verifies its outcome. The store is cleaned on every
// exit path, including a failure to open the form.
func (r *Runner) Run(ctx context.Context, sc Scenario) (res *Result, err error) {
	if cause := r.Aborted(); cause != nil {
		return nil, fmt.Errorf("%w: %w", ErrAborted, cause)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	seed := r.seed()
	logger := r.logger.With("scenario", sc.Name, "kind", string(sc.Kind), "seed", seed)
	start := time.Now()

	defer func() {
		if err != nil && isEnvironment(err) {
			r.abort(err)
		}
	}()

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()

		cerr := r.verifier.Cleanup(cleanupCtx)
		if cerr == nil {
			return
		}
		logger.Error("cleanup failed", "error", cerr)
		if err == nil {
			err = fmt.Errorf("%w: %w", ErrCleanup, cerr)
		}
		if isEnvironment(cerr) {
			r.abort(cerr)
		}
	}()

	page, err := r.open(ctx, sc.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s form: %w", sc.Kind, err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			logger.Warn("failed to close page", "error", cerr)
		}
	}()

	sub := sc.Build(cards.NewGenerator(seed))
	if err := page.Fill(sub); err != nil {
		return nil, err
	}
	if err := page.Submit(); err != nil {
		return nil, err
	}

	waiter := outcome.NewWaiter(page, r.wait, logger)
	observed, err := waiter.AwaitAll(ctx, sc.Expect)
	if err != nil {
		logger.Info("scenario failed", "error", err)
		return nil, err
	}

	if status, ok := sc.Record.Status(); ok {
		err = r.verifier.Expect(ctx, sc.Kind, status)
	} else {
		err = r.verifier.ExpectNone(ctx, sc.Kind)
	}
	if err != nil {
		logger.Info("scenario failed", "error", err)
		return nil, err
	}

	res = &Result{
		Scenario: sc.Name,
		Kind:     sc.Kind,
		Seed:     seed,
		Observed: observed,
		Record:   sc.Record,
		Elapsed:  time.Since(start),
	}
	logger.Info("scenario passed", "elapsed", res.Elapsed)

	return res, nil
}
