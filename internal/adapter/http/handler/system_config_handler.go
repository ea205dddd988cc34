package handler

import (
	"context"
	"net/http"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// SystemConfigService defines the behavior needed by SystemConfigHandler.
type SystemConfigService interface {
	Get(ctx context.Context) (*domain.SystemConfig, error)
	Update(ctx context.Context, input usecase.UpdateSystemConfigInput) (*domain.SystemConfig, error)
}

// SystemConfigHandler exposes the bonus configuration.
type SystemConfigHandler struct {
	configUC SystemConfigService
}

// NewSystemConfigHandler creates a new SystemConfigHandler.
func NewSystemConfigHandler(configUC SystemConfigService) *SystemConfigHandler {
	return &SystemConfigHandler{configUC: configUC}
}

// Get returns the current configuration.
func (h *SystemConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configUC.Get(r.Context())
	if err != nil {
		writeDomainError(w, "failed to get system config", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SystemConfigFromDomain(cfg))
}

// Update replaces the configuration.
func (h *SystemConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSystemConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cfg, err := h.configUC.Update(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update system config", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SystemConfigFromDomain(cfg))
}
