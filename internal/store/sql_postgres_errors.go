package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells whether a failed database operation should be
// retried.
type ErrorClassification int

const (
	// NonRetryable is the default for unknown errors, constraint violations,
	// syntax errors and data exceptions.
	NonRetryable ErrorClassification = iota

	// Retryable marks transient failures: lost connections, serialization
	// failures and deadlocks.
	Retryable
)

// PostgresErrorClassifier implements [ErrorClassificator] for PostgreSQL
// using the SQLSTATE carried by *pgconn.PgError.
type PostgresErrorClassifier struct{}

// NewPostgresErrorClassifier constructs a [PostgresErrorClassifier].
func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Errors that are not PostgreSQL
// errors are [NonRetryable].
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ClassifyPgError(pgErr)
	}

	return NonRetryable
}

// ClassifyPgError maps a SQLSTATE to an [ErrorClassification].
// Classes 08 (connection), 40 (transaction rollback) and 57P03 are retryable;
// everything else is not.
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	switch pgErr.Code {
	// Class 08: connection exceptions
	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure:
		return Retryable

	// Class 40: transaction rollback
	case pgerrcode.TransactionRollback, // 40000
		pgerrcode.SerializationFailure, // 40001
		pgerrcode.DeadlockDetected:     // 40P01
		return Retryable

	// Class 57: operator intervention
	case pgerrcode.CannotConnectNow: // 57P03
		return Retryable
	}

	return NonRetryable
}
