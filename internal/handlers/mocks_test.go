package handlers

import (
	"context"

	"github.com/payform/acceptance/internal/models"
	"github.com/payform/acceptance/internal/services"
)

// MockPaymentService is a mock implementation of PaymentService for testing
type MockPaymentService struct {
	PayFunc func(context.Context, models.Kind, models.CardSubmission) (*services.PaymentResult, error)
	calls   []models.Kind
}

func (m *MockPaymentService) Pay(ctx context.Context, kind models.Kind, sub models.CardSubmission) (*services.PaymentResult, error) {
	m.calls = append(m.calls, kind)
	if m.PayFunc != nil {
		return m.PayFunc(ctx, kind, sub)
	}
	return verdict(kind, models.StatusApproved), nil
}

func verdict(kind models.Kind, status models.PaymentStatus) *services.PaymentResult {
	return &services.PaymentResult{Record: &models.PaymentRecord{
		ID:     "rec-1",
		Kind:   kind,
		Status: status,
	}}
}

func rejected(fields map[models.Field]models.Outcome) error {
	return &services.ValidationError{Fields: fields}
}
