package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payform/acceptance/internal/database"
	"github.com/payform/acceptance/internal/models"
)

// PgxPaymentRepository is PaymentRepository on top of a pgx pool
type PgxPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPgxPaymentRepository creates a repository backed by pool
func NewPgxPaymentRepository(pool *pgxpool.Pool) *PgxPaymentRepository {
	return &PgxPaymentRepository{pool: pool}
}

// Latest returns the most recently created record of the given kind
func (r *PgxPaymentRepository) Latest(ctx context.Context, kind models.Kind) (*models.PaymentRecord, error) {
	query, err := queryFor(latestQuery, kind)
	if err != nil {
		return nil, err
	}

	var status string
	record := &models.PaymentRecord{Kind: kind}
	err = r.pool.QueryRow(ctx, query).Scan(&record.ID, &status, &record.Created, &record.TransactionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest %s record: %w", kind, database.Classify(err))
	}

	record.Status = models.PaymentStatus(status)
	return record, nil
}

// Count returns the number of records of the given kind
func (r *PgxPaymentRepository) Count(ctx context.Context, kind models.Kind) (int, error) {
	query, err := queryFor(countQuery, kind)
	if err != nil {
		return 0, err
	}

	var n int
	if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s records: %w", kind, database.Classify(err))
	}
	return n, nil
}

// DeleteAll removes every payment, credit request and order link in one transaction
func (r *PgxPaymentRepository) DeleteAll(ctx context.Context) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, stmt := range deleteStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to clean payment records: %w", database.Classify(err))
			}
		}
		return nil
	})
}

// Record stores a processed payment with its order link in one transaction
func (r *PgxPaymentRepository) Record(ctx context.Context, record *models.PaymentRecord, amount int64) error {
	link, err := models.NewOrderLink(record)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		if record.Kind == models.KindDirect {
			_, err = tx.Exec(ctx, insertPayment, record.ID, amount, record.Created, string(record.Status), record.TransactionID)
		} else {
			_, err = tx.Exec(ctx, insertCredit, record.ID, record.TransactionID, record.Created, string(record.Status))
		}
		if err != nil {
			return fmt.Errorf("failed to insert %s record: %w", record.Kind, database.Classify(err))
		}

		if _, err := tx.Exec(ctx, insertOrder, link.ID, link.Created, link.PaymentID, link.CreditID); err != nil {
			return fmt.Errorf("failed to insert order: %w", database.Classify(err))
		}
		return nil
	})
}

// Ping checks that the store is reachable
func (r *PgxPaymentRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", database.ErrUnreachable, err)
	}
	return nil
}
