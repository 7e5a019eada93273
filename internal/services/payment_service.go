package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/payform/acceptance/internal/models"
)

// PaymentService handles payment-related business logic
type PaymentService interface {
	Pay(ctx context.Context, kind models.Kind, sub models.CardSubmission) (*PaymentResult, error)
}

// PaymentResult represents the bank's verdict for a submission
type PaymentResult struct {
	Record *models.PaymentRecord
}

// PaymentServiceImpl implements PaymentService
type PaymentServiceImpl struct {
	gate      GateClient
	records   RecordService
	validator *FormValidator
	now       func() time.Time
	logger    *slog.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(gate GateClient, records RecordService, validator *FormValidator, logger *slog.Logger) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		gate:      gate,
		records:   records,
		validator: validator,
		now:       time.Now,
		logger:    logger,
	}
}

// Pay validates sub, asks the gate for a verdict and schedules the record.
// Unknown cards fail with ErrCardUnknown and leave no record.
func (s *PaymentServiceImpl) Pay(ctx context.Context, kind models.Kind, sub models.CardSubmission) (*PaymentResult, error) {
	if _, err := kind.Table(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(sub); err != nil {
		return nil, err
	}

	verdict, err := s.gate.Authorize(ctx, kind, sub.Number)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize %s payment: %w", kind, err)
	}

	record := &models.PaymentRecord{
		ID:            uuid.New().String(),
		Kind:          kind,
		Status:        verdict.Status,
		Created:       s.now().UTC(),
		TransactionID: uuid.New().String(),
	}
	s.records.Commit(record)

	s.logger.Info("payment processed",
		"kind", string(kind),
		"status", string(record.Status),
		"transaction_id", record.TransactionID,
	)

	return &PaymentResult{Record: record}, nil
}
