package web

// errors.go maps the service's typed errors onto client responses. Parse
// failures become 400s whose payload names the failing row and field so the
// user can fix the source file and re-upload; store lookups map to 404.

import (
	"errors"
	"net/http"

	"github.com/clarifi-dev/clarifi/internal/ingest"
	"github.com/clarifi-dev/clarifi/internal/logging"
	"github.com/clarifi-dev/clarifi/internal/store"
)

// errorResponse is the JSON error payload. Code is machine-readable;
// Detail carries failure-specific fields such as row and column names.
type errorResponse struct {
	Error  string         `json:"error"`
	Code   string         `json:"code"`
	Detail map[string]any `json:"detail,omitempty"`
}

// respondError logs the failure with request context and writes the JSON
// error payload.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, detail map[string]any) {
	logging.FromContext(r.Context()).Info("request rejected",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", code,
	)
	respondJSON(w, status, errorResponse{Error: message, Code: code, Detail: detail})
}

// respondIngestError translates a parse/validation failure into a 400 whose
// code and detail identify the exact problem.
func (s *Server) respondIngestError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		missingErr *ingest.MissingColumnsError
		tableErr   *ingest.MalformedTableError
		rowErr     *ingest.RowError
	)

	switch {
	case errors.Is(err, ingest.ErrEmptyInput):
		s.respondError(w, r, http.StatusBadRequest, "empty_input",
			"uploaded file is empty", nil)

	case errors.Is(err, ingest.ErrEmptyBatch):
		s.respondError(w, r, http.StatusBadRequest, "empty_batch",
			"uploaded file contains no transaction rows", nil)

	case errors.As(err, &missingErr):
		s.respondError(w, r, http.StatusBadRequest, "missing_columns",
			missingErr.Error(), map[string]any{"columns": missingErr.Columns})

	case errors.As(err, &rowErr):
		s.respondError(w, r, http.StatusBadRequest, "invalid_row",
			rowErr.Error(), rowDetail(rowErr))

	case errors.As(err, &tableErr):
		s.respondError(w, r, http.StatusBadRequest, "malformed_csv",
			tableErr.Error(), nil)

	default:
		s.respondStoreError(w, r, err)
	}
}

// rowDetail pulls field-level context out of a RowError's cause.
func rowDetail(rowErr *ingest.RowError) map[string]any {
	detail := map[string]any{"row": rowErr.Row}

	var (
		emptyErr  *ingest.EmptyFieldError
		amountErr *ingest.AmountError
		dateErr   *ingest.DateError
	)
	switch {
	case errors.As(rowErr.Err, &emptyErr):
		detail["field"] = emptyErr.Field
	case errors.As(rowErr.Err, &amountErr):
		detail["field"] = ingest.ColAmount
		detail["value"] = amountErr.Raw
	case errors.As(rowErr.Err, &dateErr):
		detail["field"] = dateErr.Field
		detail["value"] = dateErr.Raw
		detail["reason"] = string(dateErr.Reason)
	}
	return detail
}

// respondStoreError maps persistence-side failures.
func (s *Server) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, r, http.StatusNotFound, "not_found",
			"upload not found", nil)
		return
	}

	logging.FromContext(r.Context()).Error("request failed",
		"path", r.URL.Path,
		"method", r.Method,
		"error", err,
	)
	respondJSON(w, http.StatusInternalServerError, errorResponse{
		Error: "internal error",
		Code:  "internal",
	})
}
