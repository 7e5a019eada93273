package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewOrderLink(t *testing.T) {
	created := time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		kind        Kind
		wantPayment string
		wantCredit  string
		wantErr     error
	}{
		{name: "direct payment", kind: KindDirect, wantPayment: "rec-1"},
		{name: "credit request", kind: KindCredit, wantCredit: "rec-1"},
		{name: "unknown kind", kind: Kind("cash"), wantErr: ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &PaymentRecord{ID: "rec-1", Kind: tt.kind, Created: created}

			link, err := NewOrderLink(record)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewOrderLink() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewOrderLink() unexpected error = %v", err)
			}
			if link.ID != "order-rec-1" {
				t.Errorf("ID = %q, want %q", link.ID, "order-rec-1")
			}
			if !link.Created.Equal(created) {
				t.Errorf("Created = %v, want %v", link.Created, created)
			}
			if link.PaymentID != tt.wantPayment || link.CreditID != tt.wantCredit {
				t.Errorf("link = %+v, want payment %q credit %q", link, tt.wantPayment, tt.wantCredit)
			}

			kind, err := link.Kind()
			if err != nil || kind != tt.kind {
				t.Errorf("Kind() = %v, %v, want %v", kind, err, tt.kind)
			}
			if link.RecordID() != "rec-1" {
				t.Errorf("RecordID() = %q, want rec-1", link.RecordID())
			}
		})
	}
}

func TestOrderLink_Kind_Invalid(t *testing.T) {
	for _, link := range []OrderLink{
		{ID: "order-1"},
		{ID: "order-2", PaymentID: "p", CreditID: "c"},
	} {
		if _, err := link.Kind(); !errors.Is(err, ErrInvalidOrderLink) {
			t.Errorf("Kind() for %+v error = %v, want ErrInvalidOrderLink", link, err)
		}
	}
}
