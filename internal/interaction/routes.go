package interaction

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the interaction endpoints under the given
// router (expected to already be rooted at /api/v1).
func RegisterRoutes(r chi.Router, handler *Handler) {
	r.Route("/leads/{id}/interactions", func(r chi.Router) {
		r.Post("/", handler.LogInteraction)
		r.Get("/", handler.ListByLead)
	})

	r.Delete("/interactions/{id}", handler.DeleteInteraction)
	r.Get("/checkin", handler.WeeklyCheckin)
}
