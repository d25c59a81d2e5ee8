package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/clarifi-dev/clarifi/internal/logging"
	"github.com/clarifi-dev/clarifi/internal/model"
)

// transactionResponse is the JSON shape of one transaction. Amounts are
// serialized as quoted decimal strings so precision survives the wire.
type transactionResponse struct {
	ID              int64           `json:"id"`
	UploadID        int64           `json:"uploadId"`
	TransactionDate string          `json:"transactionDate"`
	PostDate        string          `json:"postDate"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Memo            string          `json:"memo"`
}

// uploadResponse is the full JSON shape of one upload with children.
type uploadResponse struct {
	ID               int64                 `json:"id"`
	CreatedAt        time.Time             `json:"createdAt"`
	TransactionCount int                   `json:"transactionCount"`
	Transactions     []transactionResponse `json:"transactions"`
}

// uploadSummaryResponse is the list projection: no child transactions.
type uploadSummaryResponse struct {
	ID               int64     `json:"id"`
	CreatedAt        time.Time `json:"createdAt"`
	TransactionCount int       `json:"transactionCount"`
}

// summaryResponse carries the aggregate totals of one upload.
type summaryResponse struct {
	TotalSpent       decimal.Decimal `json:"totalSpent"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	NetAmount        decimal.Decimal `json:"netAmount"`
	TransactionCount int             `json:"transactionCount"`
	AvgTransaction   decimal.Decimal `json:"avgTransactionAmount"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleIngest accepts a multipart CSV upload and ingests it as one batch.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid_request",
			"request must include a CSV file in the \"file\" form field", nil)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		s.respondError(w, r, http.StatusBadRequest, "invalid_file_type",
			"file must be a CSV", nil)
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "unreadable_file",
			"could not read uploaded file", nil)
		return
	}

	up, err := s.service.Ingest(r.Context(), raw)
	if err != nil {
		s.respondIngestError(w, r, err)
		return
	}

	log.Info("upload accepted", "upload_id", up.ID, "file", header.Filename)
	respondJSON(w, http.StatusCreated, toUploadResponse(up))
}

func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	ups, err := s.service.FetchAllUploads(r.Context())
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	resp := make([]uploadSummaryResponse, 0, len(ups))
	for _, up := range ups {
		resp = append(resp, uploadSummaryResponse{
			ID:               up.ID,
			CreatedAt:        up.CreatedAt,
			TransactionCount: up.TransactionCount,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := s.uploadIDParam(w, r)
	if !ok {
		return
	}

	up, err := s.service.FetchUpload(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUploadResponse(up))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.uploadIDParam(w, r)
	if !ok {
		return
	}

	txns, err := s.service.FetchTransactions(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	resp := make([]transactionResponse, 0, len(txns))
	for _, txn := range txns {
		resp = append(resp, toTransactionResponse(txn))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := s.uploadIDParam(w, r)
	if !ok {
		return
	}

	sum, err := s.service.Summarize(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summaryResponse{
		TotalSpent:       sum.TotalSpent,
		TotalIncome:      sum.TotalIncome,
		NetAmount:        sum.NetAmount,
		TransactionCount: sum.TransactionCount,
		AvgTransaction:   sum.AvgTransaction,
	})
}

// uploadIDParam parses the {uploadID} path parameter, responding 400 itself
// when the value is not an integer.
func (s *Server) uploadIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "uploadID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid_upload_id",
			"upload id must be an integer", nil)
		return 0, false
	}
	return id, true
}

func toTransactionResponse(txn model.Transaction) transactionResponse {
	return transactionResponse{
		ID:              txn.ID,
		UploadID:        txn.UploadID,
		TransactionDate: txn.TransactionDate,
		PostDate:        txn.PostDate,
		Description:     txn.Description,
		Category:        txn.Category,
		Type:            txn.Type,
		Amount:          txn.Amount,
		Memo:            txn.Memo,
	}
}

func toUploadResponse(up model.Upload) uploadResponse {
	txns := make([]transactionResponse, 0, len(up.Transactions))
	for _, txn := range up.Transactions {
		txns = append(txns, toTransactionResponse(txn))
	}
	return uploadResponse{
		ID:               up.ID,
		CreatedAt:        up.CreatedAt,
		TransactionCount: up.TransactionCount,
		Transactions:     txns,
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
