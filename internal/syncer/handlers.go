// internal/syncer/handlers.go

package syncer

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/avelinoh/amoretrack/internal/common/utils"
)

// Handler serves the sync status and manual refresh endpoints.
type Handler struct {
	coordinator *Coordinator
	logger      *zap.Logger
}

func NewHandler(c *Coordinator, logger *zap.Logger) *Handler {
	return &Handler{coordinator: c, logger: logger}
}

// GetStatus reports the coordinator's connectivity state.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithData(w, http.StatusOK, h.coordinator.Status())
}

// Refresh forces a re-read of the remote snapshot and reloads the
// repositories from it.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	data, err := h.coordinator.Refresh(r.Context())
	if err != nil {
		h.logger.Error("manual refresh failed", zap.Error(err))
		utils.RespondWithError(w, http.StatusBadGateway, "refresh failed: "+err.Error())
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"status":       h.coordinator.Status(),
		"leads":        len(data.Leads),
		"interactions": len(data.Interactions),
	})
}

// RegisterRoutes mounts the sync endpoints on the given router.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/sync", func(r chi.Router) {
		r.Get("/status", h.GetStatus)
		r.Post("/refresh", h.Refresh)
	})
}
