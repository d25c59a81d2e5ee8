package ingest

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

const validCSV = `Transaction Date,Post Date,Description,Category,Type,Amount,Memo
10/13/2025,10/14/2025,SQ *CLEVER BARBER,Personal,Sale,-45.74,
10/13/2025,10/14/2025,FAST & FRESH BURRITO DELI,Food & Drink,Sale,-18.07,
10/12/2025,10/13/2025,Spotify USA,Bills & Utilities,Sale,-19.99,`

func TestParse_ValidStatement(t *testing.T) {
	inputs, err := Parse(validCSV)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(inputs) != 3 {
		t.Fatalf("Parse() returned %d rows, want 3", len(inputs))
	}

	first := inputs[0]
	if first.TransactionDate != "10/13/2025" {
		t.Errorf("TransactionDate = %q, want %q", first.TransactionDate, "10/13/2025")
	}
	if first.PostDate != "10/14/2025" {
		t.Errorf("PostDate = %q, want %q", first.PostDate, "10/14/2025")
	}
	if first.Description != "SQ *CLEVER BARBER" {
		t.Errorf("Description = %q, want %q", first.Description, "SQ *CLEVER BARBER")
	}
	if first.Category != "Personal" {
		t.Errorf("Category = %q, want %q", first.Category, "Personal")
	}
	if first.Type != "Sale" {
		t.Errorf("Type = %q, want %q", first.Type, "Sale")
	}
	if first.Memo != "" {
		t.Errorf("Memo = %q, want empty", first.Memo)
	}

	wantAmounts := []string{"-45.74", "-18.07", "-19.99"}
	for i, want := range wantAmounts {
		if got := inputs[i].Amount; !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("inputs[%d].Amount = %s, want %s", i, got, want)
		}
	}
}

func TestParse_HTMLEntitiesDecoded(t *testing.T) {
	csv := `Transaction Date,Post Date,Description,Category,Type,Amount,Memo
10/13/2025,10/14/2025,FAST &amp; FRESH BURRITO,Food & Drink,Sale,-18.07,`

	inputs, err := Parse(csv)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := inputs[0].Description; got != "FAST & FRESH BURRITO" {
		t.Errorf("Description = %q, want %q", got, "FAST & FRESH BURRITO")
	}
}

func TestParse_QuotedFieldWithComma(t *testing.T) {
	csv := `Transaction Date,Post Date,Description,Category,Type,Amount,Memo
10/13/2025,10/14/2025,"ACME, INC",Shopping,Sale,-100.00,"note, with comma"`

	inputs, err := Parse(csv)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := inputs[0].Description; got != "ACME, INC" {
		t.Errorf("Description = %q, want %q", got, "ACME, INC")
	}
	if got := inputs[0].Memo; got != "note, with comma" {
		t.Errorf("Memo = %q, want %q", got, "note, with comma")
	}
}

func TestParse_ExtraColumnsIgnored(t *testing.T) {
	csv := `Extra,Transaction Date,Post Date,Description,Category,Type,Amount,Memo
x,10/13/2025,10/14/2025,Test Merchant,Shopping,Sale,-1.50,`

	inputs, err := Parse(csv)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(inputs) != 1 {
		t.Fatalf("Parse() returned %d rows, want 1", len(inputs))
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   \n\t  "} {
		if _, err := Parse(raw); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Parse(%q) error = %v, want ErrEmptyInput", raw, err)
		}
	}
}

func TestParse_EmptyBatch(t *testing.T) {
	csv := "Transaction Date,Post Date,Description,Category,Type,Amount,Memo\n"
	if _, err := Parse(csv); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("Parse() error = %v, want ErrEmptyBatch", err)
	}
}

func TestParse_MissingColumns(t *testing.T) {
	csv := `Transaction Date,Post Date,Description
10/13/2025,10/14/2025,Test Merchant`

	_, err := Parse(csv)
	var missingErr *MissingColumnsError
	if !errors.As(err, &missingErr) {
		t.Fatalf("Parse() error = %v, want MissingColumnsError", err)
	}

	want := []string{"Amount", "Category", "Memo", "Type"}
	if len(missingErr.Columns) != len(want) {
		t.Fatalf("missing columns = %v, want %v", missingErr.Columns, want)
	}
	for i, col := range want {
		if missingErr.Columns[i] != col {
			t.Errorf("missing columns = %v, want %v", missingErr.Columns, want)
			break
		}
	}
}

func TestParse_SingleMissingColumn(t *testing.T) {
	csv := `Transaction Date,Post Date,Description,Spend Group,Type,Amount,Memo
10/13/2025,10/14/2025,Test Merchant,Personal,Sale,-45.74,`

	_, err := Parse(csv)
	var missingErr *MissingColumnsError
	if !errors.As(err, &missingErr) {
		t.Fatalf("Parse() error = %v, want MissingColumnsError", err)
	}
	if len(missingErr.Columns) != 1 || missingErr.Columns[0] != "Category" {
		t.Errorf("missing columns = %v, want [Category]", missingErr.Columns)
	}
}

func TestParse_ColumnsCaseSensitive(t *testing.T) {
	csv := `transaction date,Post Date,Description,Category,Type,Amount,Memo
10/13/2025,10/14/2025,Test Merchant,Personal,Sale,-45.74,`

	_, err := Parse(csv)
	var missingErr *MissingColumnsError
	if !errors.As(err, &missingErr) {
		t.Fatalf("Parse() error = %v, want MissingColumnsError", err)
	}
}

func TestParse_FailFastOnBadRow(t *testing.T) {
	// Row 3 carries the bad date; rows 2 and 4 are valid.
	csv := `Transaction Date,Post Date,Description,Category,Type,Amount,Memo
10/13/2025,10/14/2025,Good Row,Personal,Sale,-45.74,
13/13/2025,10/14/2025,Bad Date,Personal,Sale,-18.07,
10/12/2025,10/13/2025,Another Good Row,Personal,Sale,-19.99,`

	_, err := Parse(csv)
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("Parse() error = %v, want RowError", err)
	}
	if rowErr.Row != 3 {
		t.Errorf("RowError.Row = %d, want 3", rowErr.Row)
	}

	var dateErr *DateError
	if !errors.As(rowErr.Err, &dateErr) {
		t.Fatalf("RowError cause = %v, want DateError", rowErr.Err)
	}
	if dateErr.Reason != DateMonthOutOfRange {
		t.Errorf("DateError.Reason = %q, want %q", dateErr.Reason, DateMonthOutOfRange)
	}
}

func TestParse_BadDateOnFirstDataRow(t *testing.T) {
	csv := `Transaction Date,Post Date,Description,Category,Type,Amount,Memo
13/13/2025,10/14/2025,Test Merchant,Personal,Sale,-45.74,`

	_, err := Parse(csv)
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("Parse() error = %v, want RowError", err)
	}
	if rowErr.Row != 2 {
		t.Errorf("RowError.Row = %d, want 2", rowErr.Row)
	}
}

func TestParse_UnbalancedQuotes(t *testing.T) {
	csv := "Transaction Date,Post Date,Description,Category,Type,Amount,Memo\n" +
		"10/13/2025,10/14/2025,\"broken,Personal,Sale,-45.74,\n" +
		"10/13/2025,10/14/2025,next\"x,Personal,Sale,-1.00,"

	_, err := Parse(csv)
	var tableErr *MalformedTableError
	if !errors.As(err, &tableErr) {
		t.Fatalf("Parse() error = %v, want MalformedTableError", err)
	}
}

func TestParse_BOMHeader(t *testing.T) {
	csv := "\uFEFFTransaction Date,Post Date,Description,Category,Type,Amount,Memo\n" +
		"10/13/2025,10/14/2025,Test Merchant,Personal,Sale,-45.74,"

	inputs, err := Parse(csv)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(inputs) != 1 {
		t.Fatalf("Parse() returned %d rows, want 1", len(inputs))
	}
}

func TestParse_OrderPreserved(t *testing.T) {
	inputs, err := Parse(validCSV)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	wantDescriptions := []string{"SQ *CLEVER BARBER", "FAST & FRESH BURRITO DELI", "Spotify USA"}
	for i, want := range wantDescriptions {
		if inputs[i].Description != want {
			t.Errorf("inputs[%d].Description = %q, want %q", i, inputs[i].Description, want)
		}
	}
}
