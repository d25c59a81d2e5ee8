package uploads

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/clarifi-dev/clarifi/internal/ingest"
	"github.com/clarifi-dev/clarifi/internal/store"
	"github.com/clarifi-dev/clarifi/internal/store/memory"
)

const statementCSV = `Transaction Date,Post Date,Description,Category,Type,Amount,Memo
10/13/2025,10/14/2025,SQ *CLEVER BARBER,Personal,Sale,-45.74,
10/13/2025,10/14/2025,FAST &amp; FRESH BURRITO DELI,Food & Drink,Sale,-18.07,
10/11/2025,10/12/2025,Payment Thank You,Payments,Payment,500.00,autopay`

func newTestService() *Service {
	return NewService(NewGateway(memory.New()))
}

func TestIngestRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	up, err := svc.Ingest(ctx, []byte(statementCSV))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if up.TransactionCount != 3 {
		t.Fatalf("TransactionCount = %d, want 3", up.TransactionCount)
	}
	if len(up.Transactions) != up.TransactionCount {
		t.Fatalf("len(Transactions) = %d, want %d", len(up.Transactions), up.TransactionCount)
	}

	fetched, err := svc.FetchUpload(ctx, up.ID)
	if err != nil {
		t.Fatalf("FetchUpload() error = %v", err)
	}
	if fetched.ID != up.ID {
		t.Errorf("FetchUpload() id = %d, want %d", fetched.ID, up.ID)
	}
	if len(fetched.Transactions) != 3 {
		t.Fatalf("FetchUpload() returned %d transactions, want 3", len(fetched.Transactions))
	}

	// Row order and decoded values survive the round trip.
	wantDescriptions := []string{"SQ *CLEVER BARBER", "FAST & FRESH BURRITO DELI", "Payment Thank You"}
	wantAmounts := []string{"-45.74", "-18.07", "500.00"}
	for i := range wantDescriptions {
		txn := fetched.Transactions[i]
		if txn.Description != wantDescriptions[i] {
			t.Errorf("Transactions[%d].Description = %q, want %q", i, txn.Description, wantDescriptions[i])
		}
		if !txn.Amount.Equal(decimal.RequireFromString(wantAmounts[i])) {
			t.Errorf("Transactions[%d].Amount = %s, want %s", i, txn.Amount, wantAmounts[i])
		}
		if txn.UploadID != up.ID {
			t.Errorf("Transactions[%d].UploadID = %d, want %d", i, txn.UploadID, up.ID)
		}
	}
	if fetched.Transactions[2].Memo != "autopay" {
		t.Errorf("Transactions[2].Memo = %q, want %q", fetched.Transactions[2].Memo, "autopay")
	}
}

func TestIngestRejectsBadRowAndPersistsNothing(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	bad := `Transaction Date,Post Date,Description,Category,Type,Amount,Memo
10/13/2025,10/14/2025,Good Row,Personal,Sale,-45.74,
13/13/2025,10/14/2025,Bad Date,Personal,Sale,-18.07,`

	_, err := svc.Ingest(ctx, []byte(bad))
	var rowErr *ingest.RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("Ingest() error = %v, want RowError", err)
	}
	if rowErr.Row != 3 {
		t.Errorf("RowError.Row = %d, want 3", rowErr.Row)
	}

	ups, err := svc.FetchAllUploads(ctx)
	if err != nil {
		t.Fatalf("FetchAllUploads() error = %v", err)
	}
	if len(ups) != 0 {
		t.Errorf("FetchAllUploads() returned %d uploads after rejected ingest, want 0", len(ups))
	}
}

func TestIngestEmptyInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.Ingest(ctx, []byte("  \n ")); !errors.Is(err, ingest.ErrEmptyInput) {
		t.Errorf("Ingest() error = %v, want ErrEmptyInput", err)
	}
}

func TestScopeFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	gw := NewGateway(st)

	inputs, err := ingest.Parse(statementCSV)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	boom := errors.New("boom")
	err = gw.InScope(ctx, func(sc *Scope) error {
		if _, err := sc.CreateUpload(ctx, inputs); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InScope() error = %v, want boom", err)
	}

	// The upload created before the failure must not be visible.
	err = gw.InScope(ctx, func(sc *Scope) error {
		ups, err := sc.ListUploads(ctx)
		if err != nil {
			return err
		}
		if len(ups) != 0 {
			t.Errorf("ListUploads() returned %d uploads, want 0", len(ups))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InScope() error = %v", err)
	}
}

func TestScopeReadsOwnWrites(t *testing.T) {
	ctx := context.Background()
	gw := NewGateway(memory.New())

	inputs, err := ingest.Parse(statementCSV)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	err = gw.InScope(ctx, func(sc *Scope) error {
		up, err := sc.CreateUpload(ctx, inputs)
		if err != nil {
			return err
		}
		got, err := sc.GetUpload(ctx, up.ID)
		if err != nil {
			return err
		}
		if got.TransactionCount != 3 {
			t.Errorf("GetUpload() TransactionCount = %d, want 3", got.TransactionCount)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InScope() error = %v", err)
	}
}

func TestFetchUploadNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.FetchUpload(ctx, 99); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("FetchUpload() error = %v, want ErrNotFound", err)
	}
}

func TestFetchTransactionsUnknownUpload(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	txns, err := svc.FetchTransactions(ctx, 99)
	if err != nil {
		t.Fatalf("FetchTransactions() error = %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("FetchTransactions() returned %d rows, want 0", len(txns))
	}
}

func TestFetchAllUploadsOrdered(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	first, err := svc.Ingest(ctx, []byte(statementCSV))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	second, err := svc.Ingest(ctx, []byte(statementCSV))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	ups, err := svc.FetchAllUploads(ctx)
	if err != nil {
		t.Fatalf("FetchAllUploads() error = %v", err)
	}
	if len(ups) != 2 {
		t.Fatalf("FetchAllUploads() returned %d uploads, want 2", len(ups))
	}
	if ups[0].ID != first.ID || ups[1].ID != second.ID {
		t.Errorf("uploads ordered [%d %d], want [%d %d]", ups[0].ID, ups[1].ID, first.ID, second.ID)
	}
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	up, err := svc.Ingest(ctx, []byte(statementCSV))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	sum, err := svc.Summarize(ctx, up.ID)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if want := decimal.RequireFromString("63.81"); !sum.TotalSpent.Equal(want) {
		t.Errorf("TotalSpent = %s, want %s", sum.TotalSpent, want)
	}
	if want := decimal.RequireFromString("500.00"); !sum.TotalIncome.Equal(want) {
		t.Errorf("TotalIncome = %s, want %s", sum.TotalIncome, want)
	}
	if want := decimal.RequireFromString("436.19"); !sum.NetAmount.Equal(want) {
		t.Errorf("NetAmount = %s, want %s", sum.NetAmount, want)
	}
	if sum.TransactionCount != 3 {
		t.Errorf("TransactionCount = %d, want 3", sum.TransactionCount)
	}
	if want := decimal.RequireFromString("187.94"); !sum.AvgTransaction.Equal(want) {
		t.Errorf("AvgTransaction = %s, want %s", sum.AvgTransaction, want)
	}
}

func TestSummarizeNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.Summarize(ctx, 7); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Summarize() error = %v, want ErrNotFound", err)
	}
}
