package repository

import (
	"context"
	"log/slog"

	"github.com/payform/acceptance/internal/config"
	"github.com/payform/acceptance/internal/database"
	"github.com/payform/acceptance/internal/models"
)

// Store is the payment store as both repository flavours expose it
type Store interface {
	Latest(ctx context.Context, kind models.Kind) (*models.PaymentRecord, error)
	Count(ctx context.Context, kind models.Kind) (int, error)
	DeleteAll(ctx context.Context) error
	Record(ctx context.Context, record *models.PaymentRecord, amount int64) error
	Ping(ctx context.Context) error
}

var (
	_ Store = (*PaymentRepository)(nil)
	_ Store = (*PgxPaymentRepository)(nil)
)

// Open connects to the payment store through the driver named in cfg.
// The returned func releases the connection.
func Open(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (Store, func(), error) {
	if cfg.Driver == config.DriverPgx {
		pool, err := database.OpenPool(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return NewPgxPaymentRepository(pool), pool.Close, nil
	}

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return NewPaymentRepository(db), func() { db.Close() }, nil
}
