package form

import (
	"fmt"

	"github.com/payform/acceptance/internal/models"
)

// Button captions and page classes of the payment form
const (
	buyLabel      = "Купить"
	creditLabel   = "Купить в кредит"
	continueLabel = "Продолжить"

	successNotification  = ".notification_status_ok"
	errorNotification    = ".notification_status_error"
	fieldErrorClass      = ".input__sub"
	fieldBlockClass      = ".input"
	fieldLabelClass      = ".input__top"
	fieldControlSelector = "input.input__control"
)

// fieldBlockSelector matches the block holding field f's input and its messages
func fieldBlockSelector(f models.Field) (string, error) {
	label, err := f.Label()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`%s:has(%s:text-is(%q))`, fieldBlockClass, fieldLabelClass, label), nil
}

// InputSelector matches the text input of field f
func InputSelector(f models.Field) (string, error) {
	block, err := fieldBlockSelector(f)
	if err != nil {
		return "", err
	}
	return block + " " + fieldControlSelector, nil
}

// MarkerSelector matches the visual marker of outcome o. Field markers are
// scoped to f's block unless f is FieldAny; notifications ignore f.
func MarkerSelector(o models.Outcome, f models.Field) (string, error) {
	switch o {
	case models.Success:
		return successNotification, nil
	case models.GenericError:
		return errorNotification, nil
	}
	text, ok := o.Message()
	if !ok {
		return "", fmt.Errorf("%w: %d", models.ErrUnknownOutcome, int(o))
	}

	marker := fmt.Sprintf(`%s:text-is(%q)`, fieldErrorClass, text)
	if f == models.FieldAny {
		return marker, nil
	}

	block, err := fieldBlockSelector(f)
	if err != nil {
		return "", err
	}
	return block + " " + marker, nil
}

// EntrySelector matches the start page button opening the form for kind
func EntrySelector(kind models.Kind) (string, error) {
	switch kind {
	case models.KindDirect:
		return buttonSelector(buyLabel), nil
	case models.KindCredit:
		return buttonSelector(creditLabel), nil
	default:
		return "", fmt.Errorf("%w: %q", models.ErrUnknownKind, string(kind))
	}
}

// HeadingSelector matches the heading shown once the form for kind is open
func HeadingSelector(kind models.Kind) (string, error) {
	heading, err := kind.Heading()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`h3:text-is(%q)`, heading), nil
}

// SubmitSelector matches the submit button of the payment form
func SubmitSelector() string {
	return buttonSelector(continueLabel)
}

func buttonSelector(text string) string {
	return fmt.Sprintf(`button:text-is(%q)`, text)
}

// visibleOnly narrows selector to elements currently rendered
func visibleOnly(selector string) string {
	return selector + " >> visible=true"
}
