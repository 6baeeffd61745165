package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/retail/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// Postgres error codes mapped to the retryable lock timeout
const (
	pgLockNotAvailable = "55P03"
	pgDeadlockDetected = "40P01"
)

// mapError translates storage errors into domain errors. Lock timeouts and
// deadlocks become the retryable LOCK_TIMEOUT; missing rows become
// NOT_FOUND; everything else passes through wrapped by the caller.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgDeadlockDetected:
			return shared.ErrLockTimeout
		}
	}
	return err
}
