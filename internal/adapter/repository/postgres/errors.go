package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/gowallet/internal/domain"
)

// PostgreSQL error codes that signal a transient, retryable failure.
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlock             = "40P01"
	pgErrLockNotAvailable     = "55P03"
)

// classifyError wraps retryable postgres failures in domain.ErrTransientStore
// so callers above the adapter can decide to restart the whole operation.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	if isRetryableError(err) {
		return fmt.Errorf("%w: %v", domain.ErrTransientStore, err)
	}

	return err
}

// isRetryableError checks if a PostgreSQL error should trigger a retry.
func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlock, pgErrLockNotAvailable:
			return true
		}
	}

	return false
}
