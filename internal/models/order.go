package models

import (
	"errors"
	"fmt"
	"time"
)

// OrderLink is the order row the form backend writes next to every payment
// record. Exactly one of PaymentID and CreditID is set.
type OrderLink struct {
	ID        string
	Created   time.Time
	PaymentID string
	CreditID  string
}

// ErrInvalidOrderLink is returned for a link pointing at no record or at both
var ErrInvalidOrderLink = errors.New("order link must reference exactly one record")

// NewOrderLink creates the order row for record
func NewOrderLink(record *PaymentRecord) (*OrderLink, error) {
	link := &OrderLink{
		ID:      "order-" + record.ID,
		Created: record.Created,
	}

	switch record.Kind {
	case KindDirect:
		link.PaymentID = record.ID
	case KindCredit:
		link.CreditID = record.ID
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(record.Kind))
	}

	return link, nil
}

// Kind returns the kind of the record the link points at
func (o *OrderLink) Kind() (Kind, error) {
	switch {
	case o.PaymentID != "" && o.CreditID == "":
		return KindDirect, nil
	case o.CreditID != "" && o.PaymentID == "":
		return KindCredit, nil
	default:
		return "", ErrInvalidOrderLink
	}
}

// RecordID returns the id of the linked record
func (o *OrderLink) RecordID() string {
	if o.PaymentID != "" {
		return o.PaymentID
	}
	return o.CreditID
}
