// Package scenario sequences one payment form scenario: open the form, fill it,
// submit, wait for the outcome markers and cross-check the payment store.
package scenario

import (
	"errors"
	"fmt"

	"github.com/payform/acceptance/internal/cards"
	"github.com/payform/acceptance/internal/models"
	"github.com/payform/acceptance/internal/outcome"
)

// ErrInvalidScenario is returned for scenarios that cannot be run
var ErrInvalidScenario = errors.New("invalid scenario")

// RecordExpectation says what the payment store should hold after submission.
// The zero value expects no record.
type RecordExpectation struct {
	status models.PaymentStatus
}

// RecordNone expects the submission to leave no payment record
func RecordNone() RecordExpectation {
	return RecordExpectation{}
}

// RecordStatus expects the latest record to carry status
func RecordStatus(status models.PaymentStatus) RecordExpectation {
	return RecordExpectation{status: status}
}

// Status returns the expected status and whether a record is expected at all
func (r RecordExpectation) Status() (models.PaymentStatus, bool) {
	return r.status, r.status != ""
}

func (r RecordExpectation) String() string {
	if r.status == "" {
		return "no record"
	}
	return string(r.status)
}

// Scenario is one submission of the payment form and what it should produce
type Scenario struct {
	Name   string
	Kind   models.Kind
	Build  func(g *cards.Generator) models.CardSubmission
	Expect []outcome.Expectation
	Record RecordExpectation
}

// Validate checks that the scenario is complete and that its record
// expectation agrees with the outcomes it waits for
func (s Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidScenario)
	}
	if _, err := s.Kind.Table(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidScenario, s.Name, err)
	}
	if s.Build == nil {
		return fmt.Errorf("%w: %s: missing submission", ErrInvalidScenario, s.Name)
	}
	if len(s.Expect) == 0 {
		return fmt.Errorf("%w: %s: no expected outcome", ErrInvalidScenario, s.Name)
	}

	backend := false
	for _, e := range s.Expect {
		if err := e.Outcome.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidScenario, s.Name, err)
		}
		if e.Outcome.IsBackend() {
			backend = true
		}
	}

	status, ok := s.Record.Status()
	if !ok {
		return nil
	}
	if _, err := models.ParseStatus(string(status)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidScenario, s.Name, err)
	}
	if !backend {
		return fmt.Errorf("%w: %s: expects a %s record without a backend outcome", ErrInvalidScenario, s.Name, status)
	}
	return nil
}
