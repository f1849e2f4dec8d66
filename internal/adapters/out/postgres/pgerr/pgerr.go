// Package pgerr translates driver errors into the service's error taxonomy.
package pgerr

import (
	"context"
	"errors"
	"net"

	"assetsync/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes the repositories react to.
const (
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeLockNotAvailable     = "55P03"
	CodeUniqueViolation      = "23505"
)

// Map classifies err for a write to table/id that expected version.
// Serialization failures and deadlocks are retryable version conflicts,
// unique violations are conflicts and connectivity failures are unavailable.
// Other errors are returned unchanged.
func Map(err error, table string, id any, expected int64) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case CodeSerializationFailure, CodeDeadlockDetected, CodeLockNotAvailable:
			return errs.NewVersionConflictError(table, id, expected)
		case CodeUniqueViolation:
			return errs.NewConflictErrorWithCause(table, id, "already exists", err)
		}
		return err
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewConflictErrorWithCause(table, id, "already exists", err)
	}
	if IsUnavailable(err) {
		return errs.NewUnavailableError("postgres", err)
	}
	return err
}

// IsUnavailable reports whether err means the database could not be reached.
func IsUnavailable(err error) bool {
	if pgconn.Timeout(err) {
		return !errors.Is(err, context.Canceled)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
