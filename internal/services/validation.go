package services

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/payform/acceptance/internal/cards"
	"github.com/payform/acceptance/internal/models"
)

// ErrInvalidSubmission matches any *ValidationError
var ErrInvalidSubmission = errors.New("invalid card submission")

var (
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
	numberPattern = regexp.MustCompile(`^[0-9 ]+$`)
	holderPattern = regexp.MustCompile(`^[A-Z]+ [A-Z]+$`)
)

// ValidationError lists the marker each rejected field shows
type ValidationError struct {
	Fields map[models.Field]models.Outcome
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, o := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, o))
	}
	sort.Strings(parts)
	return "invalid card submission (" + strings.Join(parts, ", ") + ")"
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidSubmission }

// submissionForm carries the field rules of the payment form
type submissionForm struct {
	Number string `validate:"required,cardnumber"`
	Month  string `validate:"required,digits,len=2"`
	Year   string `validate:"required,digits,len=2"`
	Holder string `validate:"required,max=50,cardholder"`
	CVC    string `validate:"required,digits,len=3"`
}

var formFields = map[string]models.Field{
	"Number": models.FieldNumber,
	"Month":  models.FieldMonth,
	"Year":   models.FieldYear,
	"Holder": models.FieldHolder,
	"CVC":    models.FieldCVC,
}

// FormValidator checks submissions the way the payment form does
type FormValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

// formTags are the custom tags used by submissionForm
var formTags = map[string]validator.Func{
	"digits": func(fl validator.FieldLevel) bool {
		return digitsPattern.MatchString(fl.Field().String())
	},
	"cardnumber": func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return numberPattern.MatchString(s) && len(cards.Digits(s)) == 16
	},
	"cardholder": func(fl validator.FieldLevel) bool {
		return holderPattern.MatchString(fl.Field().String())
	},
}

func registerTags(v *validator.Validate, tags map[string]validator.Func) error {
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}
	return nil
}

// NewFormValidator creates a validator judging expiry dates against now
func NewFormValidator(now func() time.Time) (*FormValidator, error) {
	v := validator.New()
	if err := registerTags(v, formTags); err != nil {
		return nil, err
	}
	return &FormValidator{validate: v, now: now}, nil
}

// Validate returns nil for an acceptable submission, or a *ValidationError
func (v *FormValidator) Validate(sub models.CardSubmission) error {
	fields := map[models.Field]models.Outcome{}

	err := v.validate.Struct(submissionForm{
		Number: sub.Number,
		Month:  sub.Month,
		Year:   sub.Year,
		Holder: sub.Holder,
		CVC:    sub.CVC,
	})
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			f := formFields[fe.Field()]
			// only the holder has its own message for an empty value
			if f == models.FieldHolder && fe.Tag() == "required" {
				fields[f] = models.EmptyFieldError
			} else {
				fields[f] = models.FieldFormatError
			}
		}
	} else if err != nil {
		return fmt.Errorf("failed to validate submission: %w", err)
	}

	_, monthBad := fields[models.FieldMonth]
	_, yearBad := fields[models.FieldYear]
	if !monthBad && !yearBad {
		v.checkExpiry(sub.Month, sub.Year, fields)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// checkExpiry applies the date rules to a well-formed month and year
func (v *FormValidator) checkExpiry(month, year string, fields map[models.Field]models.Outcome) {
	m, _ := strconv.Atoi(month)
	y, _ := strconv.Atoi(year)

	now := v.now()
	current := now.Year() % 100

	switch {
	case m == 0:
		fields[models.FieldMonth] = models.ExpiryRangeError
	case m > 12:
		fields[models.FieldMonth] = models.ExpiryFormatError
	}

	switch {
	case y < current:
		fields[models.FieldYear] = models.ExpiryRangeError
	case y > current+cards.HorizonYears:
		fields[models.FieldYear] = models.ExpiryFormatError
	case y == current && m >= 1 && m <= 12 && time.Month(m) < now.Month():
		fields[models.FieldMonth] = models.ExpiryRangeError
	}
}
