package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind distinguishes the two payment flows offered by the form
type Kind string

// Payment kinds
const (
	KindDirect Kind = "direct"
	KindCredit Kind = "credit"
)

// PaymentStatus is the settlement verdict recorded by the backend
type PaymentStatus string

// Settlement statuses
const (
	StatusApproved PaymentStatus = "APPROVED"
	StatusDeclined PaymentStatus = "DECLINED"
)

// Domain errors
var (
	ErrUnknownKind   = errors.New("unknown payment kind")
	ErrUnknownStatus = errors.New("unknown payment status")
)

// Kinds returns both payment kinds
func Kinds() []Kind {
	return []Kind{KindDirect, KindCredit}
}

// ParseKind accepts "direct"/"card" and "credit", case-insensitively
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct", "card":
		return KindDirect, nil
	case "credit":
		return KindCredit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Table returns the backend table that stores records of this kind
func (k Kind) Table() (string, error) {
	switch k {
	case KindDirect:
		return "payment_entity", nil
	case KindCredit:
		return "credit_request_entity", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
	}
}

// ParseStatus converts the stored status column into a PaymentStatus
func ParseStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case StatusApproved, StatusDeclined:
		return PaymentStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// PaymentRecord is a row written by the backend for a processed submission
type PaymentRecord struct {
	ID            string
	Kind          Kind
	Status        PaymentStatus
	Created       time.Time
	TransactionID string
}

// IsApproved returns true if the backend approved the payment
func (r *PaymentRecord) IsApproved() bool {
	return r.Status == StatusApproved
}

// IsDeclined returns true if the backend declined the payment
func (r *PaymentRecord) IsDeclined() bool {
	return r.Status == StatusDeclined
}
