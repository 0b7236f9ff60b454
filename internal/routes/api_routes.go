package routes

import (
	"campaign-lab/polystore/internal/api"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers the root greeting and every per-backend
// entity route. {db} is resolved by the handlers so unknown tags get a 422.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers) {
	r.Get("/", handlers.Root())

	r.Route("/{db}", func(db chi.Router) {
		db.Get("/users", handlers.ListUsers())
		db.Post("/users", handlers.CreateUser())
		db.Put("/users/{id}", handlers.UpdateUser())

		db.Get("/organizations", handlers.ListOrganizations())
		db.Post("/organizations", handlers.CreateOrganization())
		db.Put("/organizations/{id}", handlers.UpdateOrganization())

		db.Get("/campaigns", handlers.ListCampaigns())
		db.Post("/campaigns", handlers.CreateCampaign())
		db.Put("/campaigns/{id}", handlers.UpdateCampaign())
		db.Get("/campaigns/{campaign_id}/applications", handlers.ListCampaignApplications())

		db.Get("/applications", handlers.ListApplications())
		db.Post("/applications", handlers.CreateApplication())
		db.Put("/applications/{id}", handlers.UpdateApplication())
	})
}
