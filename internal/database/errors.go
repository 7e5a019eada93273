package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrUnreachable means the payment store cannot be used at all: it is down,
// refuses the credentials, or lacks the expected schema. Retrying does not help.
var ErrUnreachable = errors.New("payment store unreachable")

// SQLSTATE codes and classes that indicate environment misconfiguration
const (
	classConnectionException = "08"
	classInvalidAuth         = "28"
	classInvalidCatalog      = "3D"
	codeUndefinedTable       = "42P01"
)

// IsConnectivity reports whether err comes from the connection to the store
// rather than from the query result
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnreachable) {
		return true
	}
	// context errors satisfy net.Error but only mean the caller gave up
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return isEnvironmentCode(string(pqErr.Code))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isEnvironmentCode(pgErr.Code)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func isEnvironmentCode(code string) bool {
	if code == codeUndefinedTable {
		return true
	}
	if len(code) < 2 {
		return false
	}
	switch code[:2] {
	case classConnectionException, classInvalidAuth, classInvalidCatalog:
		return true
	default:
		return false
	}
}

// Classify wraps connectivity errors with ErrUnreachable and returns others unchanged
func Classify(err error) error {
	if err == nil || errors.Is(err, ErrUnreachable) {
		return err
	}
	if IsConnectivity(err) {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	return err
}
