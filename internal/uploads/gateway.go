// Package uploads contains the persistence gateway for statement ingestion:
// a scoped unit-of-work over the store plus the caller-facing service.
//
// The one rule that matters here: store records are only valid while their
// session is open, so every value handed to a caller is converted into a
// model snapshot before the scope exits. Nothing outside InScope ever
// touches a live session.
package uploads

import (
	"context"
	"fmt"

	"github.com/clarifi-dev/clarifi/internal/ingest"
	"github.com/clarifi-dev/clarifi/internal/logging"
	"github.com/clarifi-dev/clarifi/internal/model"
	"github.com/clarifi-dev/clarifi/internal/store"
)

// Gateway binds units of work to transactional store sessions.
type Gateway struct {
	store store.Store
}

// NewGateway creates a gateway over the given store.
func NewGateway(st store.Store) *Gateway {
	return &Gateway{store: st}
}

// InScope opens a session, runs fn against a scope bound to it, and settles
// the session on every exit path: commit on success, rollback when fn or
// the commit itself fails. The scope, and anything reached through it, is
// only valid inside fn. Rollback failures are logged and absorbed so they
// never mask the original cause.
func (g *Gateway) InScope(ctx context.Context, fn func(*Scope) error) error {
	tx, err := g.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logging.FromContext(ctx).Warn("session rollback failed", "error", rbErr)
		}
	}()

	if err := fn(&Scope{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}

// Scope exposes upload operations against one open session. All returned
// values are detached snapshots that stay valid after the scope closes.
type Scope struct {
	tx store.Tx
}

// CreateUpload persists one upload with a child transaction per input,
// preserving input order, and returns the fully materialized snapshot.
func (s *Scope) CreateUpload(ctx context.Context, inputs []ingest.TransactionInput) (model.Upload, error) {
	upRec, err := s.tx.InsertUpload(ctx, len(inputs))
	if err != nil {
		return model.Upload{}, err
	}

	rows := make([]store.TransactionRow, len(inputs))
	for i, in := range inputs {
		rows[i] = store.TransactionRow{
			TransactionDate: in.TransactionDate,
			PostDate:        in.PostDate,
			Description:     in.Description,
			Category:        in.Category,
			Type:            in.Type,
			Amount:          in.Amount,
			Memo:            in.Memo,
		}
	}

	txnRecs, err := s.tx.InsertTransactions(ctx, upRec.ID, rows)
	if err != nil {
		return model.Upload{}, err
	}
	return toUpload(upRec, txnRecs), nil
}

// GetUpload fetches one upload with all of its transactions, or
// store.ErrNotFound.
func (s *Scope) GetUpload(ctx context.Context, id int64) (model.Upload, error) {
	upRec, err := s.tx.GetUpload(ctx, id)
	if err != nil {
		return model.Upload{}, err
	}
	txnRecs, err := s.tx.ListTransactions(ctx, id)
	if err != nil {
		return model.Upload{}, err
	}
	return toUpload(upRec, txnRecs), nil
}

// ListUploads fetches every upload with children, in id order.
func (s *Scope) ListUploads(ctx context.Context) ([]model.Upload, error) {
	upRecs, err := s.tx.ListUploads(ctx)
	if err != nil {
		return nil, err
	}
	ups := make([]model.Upload, 0, len(upRecs))
	for _, upRec := range upRecs {
		txnRecs, err := s.tx.ListTransactions(ctx, upRec.ID)
		if err != nil {
			return nil, err
		}
		ups = append(ups, toUpload(upRec, txnRecs))
	}
	return ups, nil
}

// ListTransactions fetches the transactions of one upload in insertion
// order. Unknown ids yield an empty slice, not an error.
func (s *Scope) ListTransactions(ctx context.Context, uploadID int64) ([]model.Transaction, error) {
	txnRecs, err := s.tx.ListTransactions(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	return toTransactions(txnRecs), nil
}
