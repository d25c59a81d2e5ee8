// Package memory implements the store contract in process memory.
//
// It backs the test suite and database-less development runs. Sessions are
// exclusive: Begin blocks until the previous session finishes, which gives
// the same one-writer-per-scope guarantee the production store provides
// through its transactions. Writes are staged on the session and applied
// on Commit; reads inside a session observe its own staged writes.
package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/clarifi-dev/clarifi/internal/store"
)

// Store is an in-memory transactional store.
type Store struct {
	sem chan struct{} // session slot; held from Begin until Commit/Rollback

	nextUploadID      int64
	nextTransactionID int64
	uploads           map[int64]store.UploadRecord
	transactions      map[int64][]store.TransactionRecord // keyed by upload id
}

// New creates an empty store.
func New() *Store {
	return &Store{
		sem:          make(chan struct{}, 1),
		uploads:      make(map[int64]store.UploadRecord),
		transactions: make(map[int64][]store.TransactionRecord),
	}
}

// Begin opens a session, waiting for any active session to finish first.
func (s *Store) Begin(ctx context.Context) (store.Tx, error) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &memTx{
		store:        s,
		uploads:      make(map[int64]store.UploadRecord),
		transactions: make(map[int64][]store.TransactionRecord),
	}, nil
}

// Close releases nothing; it exists to satisfy the store contract.
func (s *Store) Close() {}

type memTx struct {
	store *Store
	done  bool

	// staged writes, applied on Commit
	uploads      map[int64]store.UploadRecord
	transactions map[int64][]store.TransactionRecord
}

func (t *memTx) InsertUpload(ctx context.Context, transactionCount int) (store.UploadRecord, error) {
	if t.done {
		return store.UploadRecord{}, errTxFinished
	}
	t.store.nextUploadID++
	rec := store.UploadRecord{
		ID:               t.store.nextUploadID,
		CreatedAt:        time.Now().UTC(),
		TransactionCount: transactionCount,
	}
	t.uploads[rec.ID] = rec
	return rec, nil
}

func (t *memTx) InsertTransactions(ctx context.Context, uploadID int64, rows []store.TransactionRow) ([]store.TransactionRecord, error) {
	if t.done {
		return nil, errTxFinished
	}
	if _, ok := t.uploads[uploadID]; !ok {
		if _, ok := t.store.uploads[uploadID]; !ok {
			return nil, fmt.Errorf("upload %d: %w", uploadID, store.ErrNotFound)
		}
	}
	recs := make([]store.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		t.store.nextTransactionID++
		recs = append(recs, store.TransactionRecord{
			ID:             t.store.nextTransactionID,
			UploadID:       uploadID,
			TransactionRow: row,
		})
	}
	t.transactions[uploadID] = append(t.transactions[uploadID], recs...)
	return recs, nil
}

func (t *memTx) GetUpload(ctx context.Context, id int64) (store.UploadRecord, error) {
	if t.done {
		return store.UploadRecord{}, errTxFinished
	}
	if rec, ok := t.uploads[id]; ok {
		return rec, nil
	}
	if rec, ok := t.store.uploads[id]; ok {
		return rec, nil
	}
	return store.UploadRecord{}, store.ErrNotFound
}

func (t *memTx) ListUploads(ctx context.Context) ([]store.UploadRecord, error) {
	if t.done {
		return nil, errTxFinished
	}
	recs := make([]store.UploadRecord, 0, len(t.store.uploads)+len(t.uploads))
	for _, rec := range t.store.uploads {
		recs = append(recs, rec)
	}
	for _, rec := range t.uploads {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs, nil
}

func (t *memTx) ListTransactions(ctx context.Context, uploadID int64) ([]store.TransactionRecord, error) {
	if t.done {
		return nil, errTxFinished
	}
	committed := t.store.transactions[uploadID]
	staged := t.transactions[uploadID]
	recs := make([]store.TransactionRecord, 0, len(committed)+len(staged))
	recs = append(recs, committed...)
	recs = append(recs, staged...)
	return recs, nil
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return errTxFinished
	}
	for id, rec := range t.uploads {
		t.store.uploads[id] = rec
	}
	for id, recs := range t.transactions {
		t.store.transactions[id] = append(t.store.transactions[id], recs...)
	}
	t.finish()
	return nil
}

// Rollback discards staged writes. After Commit it is a no-op.
func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.uploads = nil
	t.transactions = nil
	t.finish()
	return nil
}

func (t *memTx) finish() {
	t.done = true
	<-t.store.sem
}

var errTxFinished = fmt.Errorf("session already finished")
