package repository

import (
	"errors"
	"fmt"

	"github.com/payform/acceptance/internal/models"
)

// ErrNotFound is returned when no payment record of the requested kind exists
var ErrNotFound = errors.New("payment record not found")

// latestQuery selects the most recently created record of a kind.
// Credit requests carry the bank's id where payments carry a transaction id.
var latestQuery = map[models.Kind]string{
	models.KindDirect: `
		SELECT id, status, created, COALESCE(transaction_id, '')
		FROM payment_entity
		ORDER BY created DESC
		LIMIT 1
	`,
	models.KindCredit: `
		SELECT id, status, created, COALESCE(bank_id, '')
		FROM credit_request_entity
		ORDER BY created DESC
		LIMIT 1
	`,
}

var countQuery = map[models.Kind]string{
	models.KindDirect: `SELECT COUNT(*) FROM payment_entity`,
	models.KindCredit: `SELECT COUNT(*) FROM credit_request_entity`,
}

// deleteStatements empty the store; order links go first
var deleteStatements = []string{
	`DELETE FROM order_entity`,
	`DELETE FROM payment_entity`,
	`DELETE FROM credit_request_entity`,
}

const (
	insertPayment = `
		INSERT INTO payment_entity (id, amount, created, status, transaction_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	insertCredit = `
		INSERT INTO credit_request_entity (id, bank_id, created, status)
		VALUES ($1, $2, $3, $4)
	`
	insertOrder = `
		INSERT INTO order_entity (id, created, payment_id, credit_id)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
	`
)

func queryFor(queries map[models.Kind]string, kind models.Kind) (string, error) {
	q, ok := queries[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownKind, string(kind))
	}
	return q, nil
}
