package uploads

// convert.go copies store records into domain snapshots. Conversion happens
// inside the scope so no snapshot ever holds a reference into the session.

import (
	"github.com/clarifi-dev/clarifi/internal/model"
	"github.com/clarifi-dev/clarifi/internal/store"
)

func toTransaction(rec store.TransactionRecord) model.Transaction {
	return model.Transaction{
		ID:              rec.ID,
		UploadID:        rec.UploadID,
		TransactionDate: rec.TransactionDate,
		PostDate:        rec.PostDate,
		Description:     rec.Description,
		Category:        rec.Category,
		Type:            rec.Type,
		Amount:          rec.Amount,
		Memo:            rec.Memo,
	}
}

func toTransactions(recs []store.TransactionRecord) []model.Transaction {
	txns := make([]model.Transaction, len(recs))
	for i, rec := range recs {
		txns[i] = toTransaction(rec)
	}
	return txns
}

func toUpload(rec store.UploadRecord, txnRecs []store.TransactionRecord) model.Upload {
	return model.Upload{
		ID:               rec.ID,
		CreatedAt:        rec.CreatedAt,
		TransactionCount: rec.TransactionCount,
		Transactions:     toTransactions(txnRecs),
	}
}
