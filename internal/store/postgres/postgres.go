// Package postgres implements the store contract on PostgreSQL via pgx.
//
// Amounts travel as text on both sides of the wire (NUMERIC column, ::text
// on read) so shopspring decimals round-trip without any float conversion.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/clarifi-dev/clarifi/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS uploads (
	id                BIGSERIAL PRIMARY KEY,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	transaction_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS transactions (
	id               BIGSERIAL PRIMARY KEY,
	upload_id        BIGINT NOT NULL REFERENCES uploads(id) ON DELETE CASCADE,
	transaction_date VARCHAR(10) NOT NULL,
	post_date        VARCHAR(10) NOT NULL,
	description      VARCHAR(255) NOT NULL,
	category         VARCHAR(100) NOT NULL,
	type             VARCHAR(50) NOT NULL,
	amount           NUMERIC NOT NULL,
	memo             VARCHAR(255) NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_transactions_upload_id ON transactions(upload_id);
`

// Store is a PostgreSQL-backed store on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open wraps a connected pool and ensures the schema exists.
func Open(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Begin opens a new transactional session.
func (s *Store) Begin(ctx context.Context) (store.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &pgTx{tx: tx}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) InsertUpload(ctx context.Context, transactionCount int) (store.UploadRecord, error) {
	rec := store.UploadRecord{TransactionCount: transactionCount}
	err := t.tx.QueryRow(ctx,
		`INSERT INTO uploads (transaction_count) VALUES ($1) RETURNING id, created_at`,
		transactionCount,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return store.UploadRecord{}, fmt.Errorf("insert upload: %w", err)
	}
	return rec, nil
}

func (t *pgTx) InsertTransactions(ctx context.Context, uploadID int64, rows []store.TransactionRow) ([]store.TransactionRecord, error) {
	recs := make([]store.TransactionRecord, 0, len(rows))
	for i, row := range rows {
		rec := store.TransactionRecord{UploadID: uploadID, TransactionRow: row}
		err := t.tx.QueryRow(ctx,
			`INSERT INTO transactions
				(upload_id, transaction_date, post_date, description, category, type, amount, memo)
			 VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8)
			 RETURNING id`,
			uploadID, row.TransactionDate, row.PostDate, row.Description,
			row.Category, row.Type, row.Amount.String(), row.Memo,
		).Scan(&rec.ID)
		if err != nil {
			return nil, fmt.Errorf("insert transaction %d: %w", i, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (t *pgTx) GetUpload(ctx context.Context, id int64) (store.UploadRecord, error) {
	var rec store.UploadRecord
	err := t.tx.QueryRow(ctx,
		`SELECT id, created_at, transaction_count FROM uploads WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.TransactionCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.UploadRecord{}, store.ErrNotFound
	}
	if err != nil {
		return store.UploadRecord{}, fmt.Errorf("get upload %d: %w", id, err)
	}
	return rec, nil
}

func (t *pgTx) ListUploads(ctx context.Context) ([]store.UploadRecord, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT id, created_at, transaction_count FROM uploads ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var recs []store.UploadRecord
	for rows.Next() {
		var rec store.UploadRecord
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.TransactionCount); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return recs, nil
}

func (t *pgTx) ListTransactions(ctx context.Context, uploadID int64) ([]store.TransactionRecord, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT id, upload_id, transaction_date, post_date, description,
			category, type, amount::text, memo
		 FROM transactions WHERE upload_id = $1 ORDER BY id`,
		uploadID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	recs := make([]store.TransactionRecord, 0)
	for rows.Next() {
		var rec store.TransactionRecord
		var amount string
		if err := rows.Scan(&rec.ID, &rec.UploadID, &rec.TransactionDate,
			&rec.PostDate, &rec.Description, &rec.Category, &rec.Type,
			&amount, &rec.Memo); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		rec.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("decode amount %q: %w", amount, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return recs, nil
}

func (t *pgTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback is a no-op after Commit, matching pgx semantics.
func (t *pgTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}
