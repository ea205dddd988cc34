package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// TransactionApplier applies signed entries.
type TransactionApplier interface {
	Apply(ctx context.Context, input usecase.ApplyInput) (*domain.TransactionEntry, error)
}

// TransactionReader reads the transaction log.
type TransactionReader interface {
	ListByWallet(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.TransactionEntry, error)
	GetEntry(ctx context.Context, id string) (*domain.TransactionEntry, error)
	GetBalanceAtTime(ctx context.Context, walletID string, at time.Time) (*domain.Balance, error)
}

// TransactionHandler handles transaction log HTTP requests.
type TransactionHandler struct {
	applier TransactionApplier
	reader  TransactionReader
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(applier TransactionApplier, reader TransactionReader) *TransactionHandler {
	return &TransactionHandler{
		applier: applier,
		reader:  reader,
	}
}

// Apply applies a signed entry to a wallet.
func (h *TransactionHandler) Apply(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	if walletID == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	var req dto.ApplyTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.applier.Apply(r.Context(), req.ToUseCaseInput(walletID))
	if err != nil {
		writeDomainError(w, "failed to apply transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(entry))
}

// ListByWallet lists a wallet's entries in the order they were applied.
func (h *TransactionHandler) ListByWallet(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	if walletID == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	entries, err := h.reader.ListByWallet(r.Context(), usecase.ListTransactionsInput{
		WalletID: walletID,
		Limit:    parseIntQuery(r, "limit", domain.DefaultPageSize),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(entries),
		Total:        int64(len(entries)),
	})
}

// Get retrieves a single entry.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	entry, err := h.reader.GetEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(entry))
}

// BalanceHistory returns a wallet's balance at the RFC 3339 time in ?at=.
func (h *TransactionHandler) BalanceHistory(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	if walletID == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	atParam := r.URL.Query().Get("at")
	if atParam == "" {
		writeError(w, http.StatusBadRequest, "missing 'at' query parameter", "")
		return
	}

	at, err := time.Parse(time.RFC3339, atParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'at' timestamp", err.Error())
		return
	}

	balance, err := h.reader.GetBalanceAtTime(r.Context(), walletID, at)
	if err != nil {
		writeDomainError(w, "failed to get historical balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}
