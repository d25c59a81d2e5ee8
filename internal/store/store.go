// Package store defines the minimal contract the ingestion service needs
// from a transactional store: sessions with begin/commit/rollback,
// auto-assigned primary keys on insert, and parent+children reads.
//
// Implementations live in subpackages: postgres (pgx) for production and
// memory for tests and database-less runs. Record types here are raw store
// rows; the uploads package converts them into domain snapshots.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested upload does not exist.
var ErrNotFound = errors.New("upload not found")

// UploadRecord is one row of the uploads table.
type UploadRecord struct {
	ID               int64
	CreatedAt        time.Time
	TransactionCount int
}

// TransactionRecord is one row of the transactions table.
type TransactionRecord struct {
	ID       int64
	UploadID int64
	TransactionRow
}

// TransactionRow is the insert payload for one transaction, before the
// store assigns identifiers.
type TransactionRow struct {
	TransactionDate string
	PostDate        string
	Description     string
	Category        string
	Type            string
	Amount          decimal.Decimal
	Memo            string
}

// Store hands out transactional sessions. Close releases the underlying
// connection resources; it is called once at process shutdown.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	Close()
}

// Tx is one transactional session. Writes are invisible to other sessions
// until Commit; reads inside the session observe its own writes. After
// Commit or Rollback the session is finished and every further call fails.
// Rollback after Commit is a no-op, which allows the deferred-rollback
// pattern.
type Tx interface {
	// InsertUpload creates an upload row and returns it with its
	// store-assigned id and creation timestamp.
	InsertUpload(ctx context.Context, transactionCount int) (UploadRecord, error)

	// InsertTransactions creates one transaction row per input, in order,
	// and returns the records with assigned ids.
	InsertTransactions(ctx context.Context, uploadID int64, rows []TransactionRow) ([]TransactionRecord, error)

	// GetUpload returns one upload row or ErrNotFound.
	GetUpload(ctx context.Context, id int64) (UploadRecord, error)

	// ListUploads returns every upload row in id order.
	ListUploads(ctx context.Context) ([]UploadRecord, error)

	// ListTransactions returns the transaction rows of one upload in
	// insertion order. Unknown upload ids yield an empty slice.
	ListTransactions(ctx context.Context, uploadID int64) ([]TransactionRecord, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
