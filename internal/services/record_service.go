package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/payform/acceptance/internal/models"
)

// commitTimeout bounds a single delayed insert
const commitTimeout = 10 * time.Second

// RecordRepository defines the interface for payment record persistence
type RecordRepository interface {
	Record(ctx context.Context, record *models.PaymentRecord, amount int64) error
}

// RecordService commits payment records after a lag, the way a backend with an
// asynchronous write path would
type RecordService interface {
	Commit(record *models.PaymentRecord)
	Wait()
}

// RecordServiceImpl implements RecordService
type RecordServiceImpl struct {
	ctx    context.Context
	repo   RecordRepository
	lag    time.Duration
	amount int64
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewRecordService creates a record service. Pending commits are dropped once
// ctx is done.
func NewRecordService(ctx context.Context, repo RecordRepository, lag time.Duration, amount int64, logger *slog.Logger) *RecordServiceImpl {
	return &RecordServiceImpl{
		ctx:    ctx,
		repo:   repo,
		lag:    lag,
		amount: amount,
		logger: logger,
	}
}

// Commit stores record in the background once the lag has passed
func (s *RecordServiceImpl) Commit(record *models.PaymentRecord) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(s.lag)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			s.logger.Warn("payment record dropped", "id", record.ID, "kind", string(record.Kind))
			return
		case <-timer.C:
		}

		ctx, cancel := context.WithTimeout(s.ctx, commitTimeout)
		defer cancel()

		if err := s.repo.Record(ctx, record, s.amount); err != nil {
			s.logger.Error("failed to commit payment record",
				"id", record.ID,
				"kind", string(record.Kind),
				"error", err,
			)
			return
		}

		s.logger.Info("payment record committed",
			"id", record.ID,
			"kind", string(record.Kind),
			"status", string(record.Status),
		)
	}()
}

// Wait blocks until every scheduled commit has finished
func (s *RecordServiceImpl) Wait() {
	s.wg.Wait()
}
