package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/usecase"
)

// OwnerRegistrationHook is notified when an owner is created upstream.
type OwnerRegistrationHook interface {
	OnOwnerCreated(ctx context.Context, ownerID string) (*usecase.BonusResult, error)
}

// OwnerHandler handles owner lifecycle notifications.
type OwnerHandler struct {
	bonusUC OwnerRegistrationHook
}

// NewOwnerHandler creates a new OwnerHandler.
func NewOwnerHandler(bonusUC OwnerRegistrationHook) *OwnerHandler {
	return &OwnerHandler{bonusUC: bonusUC}
}

// Registered provisions the owner's wallet and credits any signup bonus.
// Repeated calls return the existing wallet without a second bonus.
func (h *OwnerHandler) Registered(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "missing owner ID", "")
		return
	}

	result, err := h.bonusUC.OnOwnerCreated(r.Context(), ownerID)
	if err != nil {
		writeDomainError(w, "failed to provision owner wallet", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OwnerRegisteredFromResult(result))
}
