package ingest

// Package-level parsing for Chase credit-card statement exports.
//
// Parse is all-or-nothing: the first invalid row aborts the batch with a
// RowError carrying the CSV row number, so a partially valid file is never
// half-ingested. Header columns must match the export format exactly
// (case-sensitive); extra columns are ignored and column order is free.

import (
	"encoding/csv"
	"errors"
	"io"
	"sort"
	"strings"
)

// Required header columns of a Chase credit-card CSV export.
const (
	ColTransactionDate = "Transaction Date"
	ColPostDate        = "Post Date"
	ColDescription     = "Description"
	ColCategory        = "Category"
	ColType            = "Type"
	ColAmount          = "Amount"
	ColMemo            = "Memo"
)

// RequiredColumns lists every column a statement export must carry.
var RequiredColumns = []string{
	ColTransactionDate,
	ColPostDate,
	ColDescription,
	ColCategory,
	ColType,
	ColAmount,
	ColMemo,
}

// Parse decodes raw statement text into validated inputs, preserving file
// order. That order becomes the persistence insertion order.
func Parse(raw string) ([]TransactionInput, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyInput
	}

	cr := csv.NewReader(strings.NewReader(raw))
	cr.FieldsPerRecord = -1 // header decides the width; rows may carry extras

	header, err := cr.Read()
	if err != nil {
		return nil, &MalformedTableError{Err: err}
	}

	headerIdx := make(map[string]int, len(header))
	for i, name := range header {
		// Windows exports often carry a UTF-8 BOM on the first header cell.
		headerIdx[strings.TrimPrefix(name, "\uFEFF")] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := headerIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingColumnsError{Columns: missing}
	}

	var inputs []TransactionInput
	rowNum := 1 // header is row 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedTableError{Err: err}
		}
		rowNum++

		fields := make(map[string]string, len(RequiredColumns))
		for _, col := range RequiredColumns {
			if pos := headerIdx[col]; pos < len(record) {
				fields[col] = record[pos]
			}
		}

		input, err := ValidateRow(fields)
		if err != nil {
			return nil, &RowError{Row: rowNum, Err: err}
		}
		inputs = append(inputs, input)
	}

	if len(inputs) == 0 {
		return nil, ErrEmptyBatch
	}
	return inputs, nil
}
