// internal/lead/handlers.go

package lead

import (
	"encoding/json"
	"errors"
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

func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var dto CreateLeadDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	l, err := h.service.CreateLead(r.Context(), &dto)
	if err != nil {
		respondServiceError(w, err, "Failed to create lead")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, l)
}

func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetLead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "Failed to get lead")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, view)
}

func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	stage := FunnelStage(r.URL.Query().Get("stage"))
	band := TemperatureBand(r.URL.Query().Get("band"))

	if band != "" && !ValidBand(band) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid temperature band")
		return
	}

	views, err := h.service.ListLeads(r.Context(), stage, band)
	if err != nil {
		respondServiceError(w, err, "Failed to list leads")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, views)
}

func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	var dto UpdateLeadDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	l, err := h.service.UpdateLead(r.Context(), chi.URLParam(r, "id"), &dto)
	if err != nil {
		respondServiceError(w, err, "Failed to update lead")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, l)
}

func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err, "Failed to delete lead")
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Lead deleted")
}

func (h *Handler) MoveStage(w http.ResponseWriter, r *http.Request) {
	var dto MoveStageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	l, err := h.service.MoveLeadToStage(r.Context(), chi.URLParam(r, "id"), &dto)
	if err != nil {
		respondServiceError(w, err, "Failed to move lead")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, l)
}

func (h *Handler) SetOverride(w http.ResponseWriter, r *http.Request) {
	var dto OverrideTemperatureDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	l, err := h.service.SetTemperatureOverride(r.Context(), chi.URLParam(r, "id"), &dto)
	if err != nil {
		respondServiceError(w, err, "Failed to set temperature override")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, l)
}

func (h *Handler) ClearOverride(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.ClearTemperatureOverride(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "Failed to clear temperature override")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, l)
}

func (h *Handler) GetTemperature(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Temperature(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "Failed to compute temperature")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, view)
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	columns, err := h.service.Board(r.Context())
	if err != nil {
		respondServiceError(w, err, "Failed to build board")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, columns)
}

// respondServiceError maps domain errors onto HTTP status codes.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrLeadNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrInvalidPlatform),
		errors.Is(err, ErrInvalidIntention),
		errors.Is(err, ErrInvalidStage):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		// Struct-tag validation failures arrive as plain errors
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
