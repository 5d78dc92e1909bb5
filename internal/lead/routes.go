package lead

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the lead endpoints under the given router
// (expected to already be rooted at /api/v1).
func RegisterRoutes(r chi.Router, handler *Handler) {
	r.Route("/leads", func(r chi.Router) {
		r.Post("/", handler.CreateLead)
		r.Get("/", handler.ListLeads)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handler.GetLead)
			r.Patch("/", handler.UpdateLead)
			r.Delete("/", handler.DeleteLead)
			r.Post("/stage", handler.MoveStage)
			r.Get("/temperature", handler.GetTemperature)
			r.Post("/temperature/override", handler.SetOverride)
			r.Delete("/temperature/override", handler.ClearOverride)
		})
	})

	r.Get("/board", handler.GetBoard)
}
