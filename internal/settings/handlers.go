// internal/settings/handlers.go

package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelinoh/amoretrack/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, h.service.Get(r.Context()))
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var dto UpdateSettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.service.Update(r.Context(), &dto)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// RegisterRoutes mounts the settings endpoints under the given router.
func RegisterRoutes(r chi.Router, handler *Handler) {
	r.Get("/settings", handler.GetSettings)
	r.Put("/settings", handler.UpdateSettings)
}
