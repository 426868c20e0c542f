package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/handlers"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/mw"
)

func init() { Register(registerGroups) }

func registerGroups(r chi.Router, d deps.Deps) {
	r.Route("/api/groups", func(r chi.Router) {
		r.Use(mw.RequireUser(d.Auth, d.Logger))

		r.Get("/", handlers.ListGroups(d))
		r.Post("/", handlers.CreateGroup(d))
		r.Post("/from-tag", handlers.GroupFromTag(d))
		r.Patch("/{id}", handlers.UpdateGroup(d))
		r.Delete("/{id}", handlers.DeleteGroup(d))
		r.Post("/{id}/toggle", handlers.ToggleGroup(d))
	})
}
