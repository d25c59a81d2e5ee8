package model

import "github.com/shopspring/decimal"

// Summary aggregates the amounts of one upload. TotalSpent is the absolute
// sum of negative amounts, TotalIncome the sum of positive amounts.
type Summary struct {
	TotalSpent       decimal.Decimal
	TotalIncome      decimal.Decimal
	NetAmount        decimal.Decimal
	TransactionCount int
	AvgTransaction   decimal.Decimal
}

// Summarize computes the aggregate totals for a set of transactions.
func Summarize(txns []Transaction) Summary {
	spent := decimal.Zero
	income := decimal.Zero
	for _, t := range txns {
		if t.Amount.IsNegative() {
			spent = spent.Add(t.Amount.Abs())
		} else {
			income = income.Add(t.Amount)
		}
	}

	s := Summary{
		TotalSpent:       spent,
		TotalIncome:      income,
		NetAmount:        income.Sub(spent),
		TransactionCount: len(txns),
		AvgTransaction:   decimal.Zero,
	}
	if len(txns) > 0 {
		s.AvgTransaction = income.Add(spent).Div(decimal.NewFromInt(int64(len(txns)))).Round(2)
	}
	return s
}
