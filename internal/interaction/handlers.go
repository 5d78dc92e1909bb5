// internal/interaction/handlers.go

package interaction

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelinoh/amoretrack/internal/common/utils"
	"github.com/avelinoh/amoretrack/internal/lead"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) LogInteraction(w http.ResponseWriter, r *http.Request) {
	var dto LogInteractionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	it, err := h.service.LogInteraction(r.Context(), chi.URLParam(r, "id"), &dto)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, it)
}

func (h *Handler) ListByLead(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.GetInteractionsByLead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

func (h *Handler) DeleteInteraction(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteInteraction(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Interaction deleted")
}

func (h *Handler) WeeklyCheckin(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.WeeklyCheckin(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build check-in report")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, entries)
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInteractionNotFound), errors.Is(err, lead.ErrLeadNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	}
}
