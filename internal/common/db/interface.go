package db

import "context"

// Database defines the unified interface for relational storage.
// This abstraction allows swapping the concrete driver without
// touching repositories.
type Database interface {
	Querier

	// Transaction executes fn within a database transaction.
	// The transaction is rolled back if fn returns an error.
	Transaction(ctx context.Context, fn func(tx Transaction) error) error

	// Ping verifies the connection is alive
	Ping(ctx context.Context) error

	// Close closes the underlying connection pool
	Close() error
}

// Querier abstracts query operations shared by Database and Transaction.
type Querier interface {
	Query(ctx context.Context, query string, args ...interface{}) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) Row
	Exec(ctx context.Context, query string, args ...interface{}) (Result, error)
}

// Transaction represents an in-flight database transaction.
type Transaction interface {
	Querier

	Commit() error
	Rollback() error
}

// Rows is the result of a query.
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Close() error
	Err() error
}

// Row is the result of a query expected to return at most one row.
type Row interface {
	Scan(dest ...interface{}) error
}

// Result summarizes an executed statement.
type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}
