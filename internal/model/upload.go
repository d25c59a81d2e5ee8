package model

import "time"

// Upload is one ingested statement batch with its child transactions in
// CSV row order. TransactionCount is fixed at creation time and always
// equals len(Transactions); neither is mutated afterwards.
type Upload struct {
	ID               int64
	CreatedAt        time.Time
	TransactionCount int
	Transactions     []Transaction
}
