package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/payform/acceptance/internal/logging"
	"github.com/payform/acceptance/internal/models"
	"github.com/stretchr/testify/assert"
)

// MockRecordRepository is a mock implementation of RecordRepository for testing
type MockRecordRepository struct {
	RecordFunc func(context.Context, *models.PaymentRecord, int64) error

	mu       sync.Mutex
	recorded []*models.PaymentRecord
	at       []time.Time
}

func (m *MockRecordRepository) Record(ctx context.Context, record *models.PaymentRecord, amount int64) error {
	m.mu.Lock()
	m.recorded = append(m.recorded, record)
	m.at = append(m.at, time.Now())
	m.mu.Unlock()

	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, record, amount)
	}
	return nil
}

func TestRecordService_CommitAfterLag(t *testing.T) {
	repo := &MockRecordRepository{}
	s := NewRecordService(context.Background(), repo, 30*time.Millisecond, 4500000, logging.Discard())
	record := &models.PaymentRecord{ID: "rec-1", Kind: models.KindDirect, Status: models.StatusApproved}

	start := time.Now()
	s.Commit(record)

	repo.mu.Lock()
	assert.Empty(t, repo.recorded, "commit must not be synchronous")
	repo.mu.Unlock()

	s.Wait()

	assert.Len(t, repo.recorded, 1)
	assert.GreaterOrEqual(t, repo.at[0].Sub(start), 30*time.Millisecond)
}

func TestRecordService_PassesAmount(t *testing.T) {
	var gotAmount int64
	repo := &MockRecordRepository{RecordFunc: func(ctx context.Context, record *models.PaymentRecord, amount int64) error {
		gotAmount = amount
		return nil
	}}
	s := NewRecordService(context.Background(), repo, 0, 4500000, logging.Discard())

	s.Commit(&models.PaymentRecord{ID: "rec-1", Kind: models.KindCredit})
	s.Wait()

	assert.Equal(t, int64(4500000), gotAmount)
}

func TestRecordService_RepositoryErrorIsLogged(t *testing.T) {
	repo := &MockRecordRepository{RecordFunc: func(context.Context, *models.PaymentRecord, int64) error {
		return errors.New("duplicate key value violates unique constraint")
	}}
	s := NewRecordService(context.Background(), repo, 0, 1, logging.Discard())

	s.Commit(&models.PaymentRecord{ID: "rec-1"})
	s.Wait()

	assert.Len(t, repo.recorded, 1)
}

func TestRecordService_DropsPendingCommitsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := &MockRecordRepository{}
	s := NewRecordService(ctx, repo, time.Hour, 1, logging.Discard())

	s.Commit(&models.PaymentRecord{ID: "rec-1"})
	cancel()

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
	assert.Empty(t, repo.recorded)
}
