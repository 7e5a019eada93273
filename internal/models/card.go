package models

import (
	"errors"
	"fmt"
)

// Field identifies one input of the payment form
type Field int

// Form fields, in the order they appear on the page
const (
	FieldAny Field = iota
	FieldNumber
	FieldMonth
	FieldYear
	FieldHolder
	FieldCVC
)

// ErrUnknownField is returned for values outside the declared field set
var ErrUnknownField = errors.New("unknown form field")

// Fields returns the concrete form fields in page order
func Fields() []Field {
	return []Field{FieldNumber, FieldMonth, FieldYear, FieldHolder, FieldCVC}
}

func (f Field) String() string {
	switch f {
	case FieldAny:
		return "any"
	case FieldNumber:
		return "number"
	case FieldMonth:
		return "month"
	case FieldYear:
		return "year"
	case FieldHolder:
		return "holder"
	case FieldCVC:
		return "cvc"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// CardSubmission is the set of values typed into the payment form.
// An empty string leaves the corresponding field untouched.
type CardSubmission struct {
	Number string
	Month  string
	Year   string
	Holder string
	CVC    string
}

// Value returns the submission's value for field f
func (s CardSubmission) Value(f Field) (string, error) {
	switch f {
	case FieldNumber:
		return s.Number, nil
	case FieldMonth:
		return s.Month, nil
	case FieldYear:
		return s.Year, nil
	case FieldHolder:
		return s.Holder, nil
	case FieldCVC:
		return s.CVC, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
}

// With returns a copy of s with field f set to value
func (s CardSubmission) With(f Field, value string) (CardSubmission, error) {
	switch f {
	case FieldNumber:
		s.Number = value
	case FieldMonth:
		s.Month = value
	case FieldYear:
		s.Year = value
	case FieldHolder:
		s.Holder = value
	case FieldCVC:
		s.CVC = value
	default:
		return s, fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return s, nil
}

// IsEmpty returns true if no field carries a value
func (s CardSubmission) IsEmpty() bool {
	return s == CardSubmission{}
}
