// Package verify checks what the payment form backend committed to the store.
//
// The UI shows its outcome before the backend's write is guaranteed to be visible,
// so reads are retried with a bounded exponential backoff. Connectivity failures
// are environment errors and are never retried.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/payform/acceptance/internal/config"
	"github.com/payform/acceptance/internal/database"
	"github.com/payform/acceptance/internal/models"
	"github.com/payform/acceptance/internal/poll"
	"github.com/payform/acceptance/internal/repository"
)

var (
	// ErrRecordNotFound matches any *RecordNotFoundError
	ErrRecordNotFound = errors.New("payment record not found")
	// ErrMismatch matches any *MismatchError
	ErrMismatch = errors.New("payment status mismatch")
	// ErrUnexpectedRecord matches any *UnexpectedRecordError
	ErrUnexpectedRecord = errors.New("unexpected payment record")
)

// Store reads and clears payment records.
// Latest returns repository.ErrNotFound when no record of the kind exists yet.
type Store interface {
	Latest(ctx context.Context, kind models.Kind) (*models.PaymentRecord, error)
	Count(ctx context.Context, kind models.Kind) (int, error)
	DeleteAll(ctx context.Context) error
}

// RecordNotFoundError is returned when no record appeared within the retry budget
type RecordNotFoundError struct {
	Kind     models.Kind
	Attempts int
	Elapsed  time.Duration
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("no %s record after %d attempts in %s", e.Kind, e.Attempts, e.Elapsed.Round(time.Millisecond))
}

func (e *RecordNotFoundError) Is(target error) bool { return target == ErrRecordNotFound }

// MismatchError is returned when the latest record has another status than expected
type MismatchError struct {
	Kind     models.Kind
	Expected models.PaymentStatus
	Actual   models.PaymentStatus
	RecordID string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("latest %s record %s has status %q, expected %q", e.Kind, e.RecordID, e.Actual, e.Expected)
}

func (e *MismatchError) Is(target error) bool { return target == ErrMismatch }

// UnexpectedRecordError is returned when a record shows up for a rejected submission
type UnexpectedRecordError struct {
	Kind  models.Kind
	Count int
}

func (e *UnexpectedRecordError) Error() string {
	return fmt.Sprintf("expected no %s record, found %d", e.Kind, e.Count)
}

func (e *UnexpectedRecordError) Is(target error) bool { return target == ErrUnexpectedRecord }

// Verifier polls a Store for the record produced by the last submission
type Verifier struct {
	store  Store
	cfg    config.VerifyConfig
	logger *slog.Logger
}

// NewVerifier creates a verifier over store
func NewVerifier(store Store, cfg config.VerifyConfig, logger *slog.Logger) *Verifier {
	return &Verifier{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

func (v *Verifier) policy() poll.Policy {
	return poll.Exponential(v.cfg.PollInterval, v.cfg.MaxInterval, v.cfg.MaxAttempts, v.cfg.MaxWait)
}

// latest polls the store until a record of kind exists
func (v *Verifier) latest(ctx context.Context, kind models.Kind) (*models.PaymentRecord, error) {
	if _, err := kind.Table(); err != nil {
		return nil, err
	}

	var record *models.PaymentRecord
	res, err := poll.Until(ctx, v.policy(), func(ctx context.Context) (bool, error) {
		r, err := v.store.Latest(ctx, kind)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return false, nil
		case errors.Is(err, database.ErrUnreachable):
			return false, poll.Permanent(err)
		case err != nil:
			return false, err
		}
		record = r
		return true, nil
	})

	var exhausted *poll.ExhaustedError
	if errors.As(err, &exhausted) {
		if exhausted.Last != nil {
			// the store kept failing; report that rather than a missing row
			return nil, fmt.Errorf("failed to read latest %s record after %d attempts: %w", kind, exhausted.Attempts, exhausted.Last)
		}
		return nil, &RecordNotFoundError{Kind: kind, Attempts: res.Attempts, Elapsed: res.Elapsed}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest %s record: %w", kind, err)
	}

	v.logger.Debug("payment record found",
		"kind", string(kind),
		"id", record.ID,
		"status", string(record.Status),
		"attempts", res.Attempts,
	)

	return record, nil
}

// Status returns the status of the most recent record of kind, verbatim.
// It retries while the store has no such record and gives up with a
// *RecordNotFoundError once the budget is spent.
func (v *Verifier) Status(ctx context.Context, kind models.Kind) (models.PaymentStatus, error) {
	record, err := v.latest(ctx, kind)
	if err != nil {
		return "", err
	}
	return record.Status, nil
}

// Expect checks that the most recent record of kind has the wanted status
func (v *Verifier) Expect(ctx context.Context, kind models.Kind, want models.PaymentStatus) error {
	if _, err := models.ParseStatus(string(want)); err != nil {
		return err
	}

	record, err := v.latest(ctx, kind)
	if err != nil {
		return err
	}

	if record.Status != want {
		return &MismatchError{Kind: kind, Expected: want, Actual: record.Status, RecordID: record.ID}
	}

	return nil
}

// ExpectNone watches the store for the absence window and fails as soon as
// a record of kind appears
func (v *Verifier) ExpectNone(ctx context.Context, kind models.Kind) error {
	if _, err := kind.Table(); err != nil {
		return err
	}

	var count int
	_, err := poll.Until(ctx, poll.Constant(v.cfg.PollInterval, v.cfg.AbsenceWindow), func(ctx context.Context) (bool, error) {
		n, err := v.store.Count(ctx, kind)
		if err != nil {
			return false, poll.Permanent(err)
		}
		count = n
		return n > 0, nil
	})

	switch {
	case err == nil:
		return &UnexpectedRecordError{Kind: kind, Count: count}
	case errors.Is(err, poll.ErrExhausted):
		// nothing appeared during the whole window
		return nil
	default:
		return fmt.Errorf("failed to count %s records: %w", kind, err)
	}
}

// Cleanup removes every payment record, credit request and order link
func (v *Verifier) Cleanup(ctx context.Context) error {
	if err := v.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clean payment store: %w", err)
	}
	v.logger.Debug("payment store cleaned")
	return nil
}
