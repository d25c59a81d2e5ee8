package uploads

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clarifi-dev/clarifi/internal/ingest"
	"github.com/clarifi-dev/clarifi/internal/model"
)

// Service is the caller-facing surface for statement ingestion and
// retrieval. It owns no state beyond the gateway; parsing is pure, so
// independent callers may ingest concurrently while the store serializes
// each batch write in its own session.
type Service struct {
	gateway *Gateway
}

// NewService creates a service over the given gateway.
func NewService(gw *Gateway) *Service {
	return &Service{gateway: gw}
}

// Ingest parses and validates raw statement CSV bytes and persists the
// batch atomically as one upload. A single bad row rejects the whole file;
// nothing is persisted unless every row validates.
func (s *Service) Ingest(ctx context.Context, raw []byte) (model.Upload, error) {
	log := slog.With("ingest_id", uuid.New().String())

	inputs, err := ingest.Parse(string(raw))
	if err != nil {
		log.Info("statement rejected", "error", err)
		return model.Upload{}, err
	}

	var up model.Upload
	err = s.gateway.InScope(ctx, func(sc *Scope) error {
		var err error
		up, err = sc.CreateUpload(ctx, inputs)
		return err
	})
	if err != nil {
		log.Error("statement persist failed", "rows", len(inputs), "error", err)
		return model.Upload{}, err
	}

	log.Info("statement ingested", "upload_id", up.ID, "rows", up.TransactionCount)
	return up, nil
}

// FetchUpload returns one upload with its transactions, or
// store.ErrNotFound.
func (s *Service) FetchUpload(ctx context.Context, id int64) (model.Upload, error) {
	var up model.Upload
	err := s.gateway.InScope(ctx, func(sc *Scope) error {
		var err error
		up, err = sc.GetUpload(ctx, id)
		return err
	})
	return up, err
}

// FetchAllUploads returns every upload with children, in id order.
func (s *Service) FetchAllUploads(ctx context.Context) ([]model.Upload, error) {
	var ups []model.Upload
	err := s.gateway.InScope(ctx, func(sc *Scope) error {
		var err error
		ups, err = sc.ListUploads(ctx)
		return err
	})
	return ups, err
}

// FetchTransactions returns the transactions of one upload in insertion
// order; an unknown id yields an empty slice.
func (s *Service) FetchTransactions(ctx context.Context, uploadID int64) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := s.gateway.InScope(ctx, func(sc *Scope) error {
		var err error
		txns, err = sc.ListTransactions(ctx, uploadID)
		return err
	})
	return txns, err
}

// Summarize returns the aggregate totals of one upload, or
// store.ErrNotFound for an unknown id.
func (s *Service) Summarize(ctx context.Context, uploadID int64) (model.Summary, error) {
	up, err := s.FetchUpload(ctx, uploadID)
	if err != nil {
		return model.Summary{}, err
	}
	return model.Summarize(up.Transactions), nil
}
