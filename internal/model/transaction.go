// Package model holds the immutable domain snapshots handed out by the
// persistence gateway. Values here are plain data: they never reference a
// live database session and stay valid after the unit of work that produced
// them has closed.
package model

import "github.com/shopspring/decimal"

// Transaction is one persisted statement row.
type Transaction struct {
	ID              int64
	UploadID        int64
	TransactionDate string
	PostDate        string
	Description     string
	Category        string
	Type            string
	Amount          decimal.Decimal
	Memo            string
}
