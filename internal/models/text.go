package models

import "fmt"

// Texts the payment form shows. The stand-in form renders them and the form
// driver locates elements by them, so both read from here.

var fieldMessages = map[Outcome]string{
	FieldFormatError:  "Неверный формат",
	EmptyFieldError:   "Поле обязательно для заполнения",
	ExpiryRangeError:  "Истёк срок действия карты",
	ExpiryFormatError: "Неверно указан срок действия карты",
}

var fieldLabels = map[Field]string{
	FieldNumber: "Номер карты",
	FieldMonth:  "Месяц",
	FieldYear:   "Год",
	FieldHolder: "Владелец",
	FieldCVC:    "CVC/CVV",
}

var kindHeadings = map[Kind]string{
	KindDirect: "Оплата по карте",
	KindCredit: "Кредит по данным карты",
}

// Message returns the text shown under a field rejected with o.
// Notification outcomes have no field message.
func (o Outcome) Message() (string, bool) {
	msg, ok := fieldMessages[o]
	return msg, ok
}

// Label returns the caption shown above field f
func (f Field) Label() (string, error) {
	label, ok := fieldLabels[f]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return label, nil
}

// Heading returns the heading of the payment form of kind k
func (k Kind) Heading() (string, error) {
	heading, ok := kindHeadings[k]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
	}
	return heading, nil
}
