package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
)

// BillingService defines the behavior needed by BillingHandler.
type BillingService interface {
	Charge(ctx context.Context, record *domain.BillingRecord) (*domain.TransactionEntry, error)
	ChargeStatus(ctx context.Context, recordID string) (*domain.ChargeStatus, error)
}

// BillingHandler handles usage charges.
type BillingHandler struct {
	billingUC BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingUC BillingService) *BillingHandler {
	return &BillingHandler{billingUC: billingUC}
}

// Charge debits the owner's wallet by the record's total cost.
func (h *BillingHandler) Charge(w http.ResponseWriter, r *http.Request) {
	var req dto.ChargeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.billingUC.Charge(r.Context(), req.ToDomain())
	if err != nil {
		writeDomainError(w, "failed to charge billing record", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(entry))
}

// Status reports whether a billing record has been charged.
func (h *BillingHandler) Status(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")
	if recordID == "" {
		writeError(w, http.StatusBadRequest, "missing billing record ID", "")
		return
	}

	status, err := h.billingUC.ChargeStatus(r.Context(), recordID)
	if err != nil {
		writeDomainError(w, "failed to get charge status", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChargeStatusFromDomain(status))
}
