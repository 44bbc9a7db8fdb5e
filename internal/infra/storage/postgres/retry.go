package postgres

import (
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// withBackoff wraps an archive write with exponential backoff retry.
// Retries on transient connection and serialization errors; everything else
// is treated as permanent and returned immediately.
func withBackoff(operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}
		if isTransient(err) {
			return err // Will be retried
		}
		return backoff.Permanent(err)
	}, b)
}

// isTransient determines if an error should be retried.
//
// Detection relies on pg error message strings and SQLSTATE codes surfaced
// through the pgx stdlib driver.
func isTransient(err error) bool {
	errStr := err.Error()

	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"the database system is starting up",
		"too many clients",
		"SQLSTATE 40001", // serialization_failure
		"SQLSTATE 40P01", // deadlock_detected
	} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
