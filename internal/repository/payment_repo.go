package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/payform/acceptance/internal/database"
	"github.com/payform/acceptance/internal/models"
)

// PaymentRepository reads and clears payment records through database/sql
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new payment repository with a specific database connection
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{
		db: db,
	}
}

// Latest returns the most recently created record of the given kind
func (r *PaymentRepository) Latest(ctx context.Context, kind models.Kind) (*models.PaymentRecord, error) {
	query, err := queryFor(latestQuery, kind)
	if err != nil {
		return nil, err
	}

	var status string
	record := &models.PaymentRecord{Kind: kind}
	err = r.db.QueryRowContext(ctx, query).Scan(
		&record.ID,
		&status,
		&record.Created,
		&record.TransactionID,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get latest %s record: %w", kind, database.Classify(err))
	}

	// The status column is returned verbatim; unknown values are the caller's concern
	record.Status = models.PaymentStatus(status)

	return record, nil
}

// Count returns the number of records of the given kind
func (r *PaymentRepository) Count(ctx context.Context, kind models.Kind) (int, error) {
	query, err := queryFor(countQuery, kind)
	if err != nil {
		return 0, err
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s records: %w", kind, database.Classify(err))
	}

	return n, nil
}

// DeleteAll removes every payment, credit request and order link in one transaction
func (r *PaymentRepository) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cleanup: %w", database.Classify(err))
	}
	defer tx.Rollback()

	for _, stmt := range deleteStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clean payment records: %w", database.Classify(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cleanup: %w", database.Classify(err))
	}

	return nil
}

// Record stores a processed payment the way the form backend does: the
// kind-specific row plus an order link. Used by the stand-in form only.
func (r *PaymentRepository) Record(ctx context.Context, record *models.PaymentRecord, amount int64) error {
	link, err := models.NewOrderLink(record)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin insert: %w", database.Classify(err))
	}
	defer tx.Rollback()

	if record.Kind == models.KindDirect {
		_, err = tx.ExecContext(ctx, insertPayment, record.ID, amount, record.Created, string(record.Status), record.TransactionID)
	} else {
		_, err = tx.ExecContext(ctx, insertCredit, record.ID, record.TransactionID, record.Created, string(record.Status))
	}
	if err != nil {
		return fmt.Errorf("failed to insert %s record: %w", record.Kind, database.Classify(err))
	}

	if _, err := tx.ExecContext(ctx, insertOrder, link.ID, link.Created, link.PaymentID, link.CreditID); err != nil {
		return fmt.Errorf("failed to insert order: %w", database.Classify(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit insert: %w", database.Classify(err))
	}

	return nil
}

// Ping checks that the store is reachable
func (r *PaymentRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", database.ErrUnreachable, err)
	}
	return nil
}
