package ingest

// validate.go normalizes one raw CSV field-map into a TransactionInput.
//
// Validation is pure and deterministic: the same field map always yields the
// same input or the same error kind. Date checks follow the statement export
// contract (MM/DD/YYYY, month 1-12, day 1-31, year 1900-2100) without a
// day-in-month cross-check, so 02/31/2025 passes.

import (
	"html"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionInput is one validated statement row, ready for persistence.
// Dates keep their MM/DD/YYYY source form; Amount is negative for spend and
// positive for credits, with the source precision preserved.
type TransactionInput struct {
	TransactionDate string
	PostDate        string
	Description     string
	Category        string
	Type            string
	Amount          decimal.Decimal
	Memo            string
}

// ValidateRow validates and normalizes one raw field map keyed by header
// column name. It returns an EmptyFieldError, AmountError or DateError on
// the first rule the row breaks.
func ValidateRow(fields map[string]string) (TransactionInput, error) {
	description := strings.TrimSpace(html.UnescapeString(fields[ColDescription]))
	category := strings.TrimSpace(fields[ColCategory])
	txnType := strings.TrimSpace(fields[ColType])
	memo := strings.TrimSpace(fields[ColMemo])

	for _, f := range []struct {
		name  string
		value string
	}{
		{ColDescription, description},
		{ColCategory, category},
		{ColType, txnType},
	} {
		if f.value == "" {
			return TransactionInput{}, &EmptyFieldError{Field: f.name}
		}
	}

	rawAmount := strings.TrimSpace(fields[ColAmount])
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return TransactionInput{}, &AmountError{Raw: fields[ColAmount]}
	}

	txnDate := strings.TrimSpace(fields[ColTransactionDate])
	if err := validateDate(ColTransactionDate, txnDate); err != nil {
		return TransactionInput{}, err
	}
	postDate := strings.TrimSpace(fields[ColPostDate])
	if err := validateDate(ColPostDate, postDate); err != nil {
		return TransactionInput{}, err
	}

	return TransactionInput{
		TransactionDate: txnDate,
		PostDate:        postDate,
		Description:     description,
		Category:        category,
		Type:            txnType,
		Amount:          amount,
		Memo:            memo,
	}, nil
}

// validateDate enforces the MM/DD/YYYY rules. Zero-padding is not required;
// "1/2/2025" is as valid as "01/02/2025".
func validateDate(field, raw string) error {
	if raw == "" {
		return &DateError{Field: field, Raw: raw, Reason: DateEmpty}
	}

	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return &DateError{Field: field, Raw: raw, Reason: DateWrongParts}
	}

	nums := make([]int, 3)
	for i, p := range parts {
		if p == "" || strings.IndexFunc(p, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return &DateError{Field: field, Raw: raw, Reason: DateNonNumeric}
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return &DateError{Field: field, Raw: raw, Reason: DateNonNumeric}
		}
		nums[i] = n
	}

	month, day, year := nums[0], nums[1], nums[2]
	switch {
	case month < 1 || month > 12:
		return &DateError{Field: field, Raw: raw, Reason: DateMonthOutOfRange}
	case day < 1 || day > 31:
		return &DateError{Field: field, Raw: raw, Reason: DateDayOutOfRange}
	case year < 1900 || year > 2100:
		return &DateError{Field: field, Raw: raw, Reason: DateYearOutOfRange}
	}
	return nil
}
