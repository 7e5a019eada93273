package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema is the layout of the payment form backend's tables, as far as the
// harness reads them. The backend owns it; the harness only applies it to
// throwaway databases and to the stand-in form.
const Schema = `
	CREATE TABLE IF NOT EXISTS payment_entity (
		id VARCHAR(255) PRIMARY KEY,
		amount INTEGER NOT NULL,
		created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		status VARCHAR(255) NOT NULL,
		transaction_id VARCHAR(255)
	);

	CREATE TABLE IF NOT EXISTS credit_request_entity (
		id VARCHAR(255) PRIMARY KEY,
		bank_id VARCHAR(255),
		created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		status VARCHAR(255) NOT NULL
	);

	CREATE TABLE IF NOT EXISTS order_entity (
		id VARCHAR(255) PRIMARY KEY,
		created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		credit_id VARCHAR(255),
		payment_id VARCHAR(255)
	);

	CREATE INDEX IF NOT EXISTS idx_payment_entity_created ON payment_entity(created);
	CREATE INDEX IF NOT EXISTS idx_credit_request_entity_created ON credit_request_entity(created);
	`

// ApplySchema creates the payment tables if they do not exist
func ApplySchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create payment tables: %w", err)
	}

	return nil
}
