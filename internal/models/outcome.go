package models

import (
	"errors"
	"fmt"
)

// Outcome is a terminal visual state the payment form reaches after submission.
//
// The set is closed: every consumer switches over it exhaustively and returns
// ErrUnknownOutcome for anything else, so adding a state means touching each switch.
type Outcome int

// Terminal form states
const (
	Success Outcome = iota + 1
	GenericError
	FieldFormatError
	EmptyFieldError
	ExpiryRangeError
	ExpiryFormatError
)

// ErrUnknownOutcome is returned for values outside the closed Outcome set
var ErrUnknownOutcome = errors.New("unknown outcome")

// Outcomes returns every valid outcome in declaration order
func Outcomes() []Outcome {
	return []Outcome{
		Success,
		GenericError,
		FieldFormatError,
		EmptyFieldError,
		ExpiryRangeError,
		ExpiryFormatError,
	}
}

// String returns the outcome name used in logs and error messages
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case GenericError:
		return "generic-error"
	case FieldFormatError:
		return "field-format-error"
	case EmptyFieldError:
		return "empty-field-error"
	case ExpiryRangeError:
		return "expiry-range-error"
	case ExpiryFormatError:
		return "expiry-format-error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Validate returns ErrUnknownOutcome if o is not one of the declared outcomes
func (o Outcome) Validate() error {
	switch o {
	case Success, GenericError, FieldFormatError, EmptyFieldError, ExpiryRangeError, ExpiryFormatError:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownOutcome, int(o))
	}
}

// IsBackend reports whether the outcome is only reached after the backend decided
// on the payment. Client-side validation outcomes resolve without a round trip.
func (o Outcome) IsBackend() bool {
	switch o {
	case Success, GenericError:
		return true
	default:
		return false
	}
}

// ParseOutcome converts a name produced by String back into an Outcome
func ParseOutcome(name string) (Outcome, error) {
	for _, o := range Outcomes() {
		if o.String() == name {
			return o, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOutcome, name)
}
