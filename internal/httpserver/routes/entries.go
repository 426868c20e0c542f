package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/handlers"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/mw"
)

func init() { Register(registerEntries) }

func registerEntries(r chi.Router, d deps.Deps) {
	r.Route("/api/entries", func(r chi.Router) {
		r.Use(mw.RequireUser(d.Auth, d.Logger))

		r.Get("/", handlers.ListEntries(d))
		r.Post("/", handlers.CreateEntry(d))
		r.Get("/most-visited", handlers.MostVisited(d))
		r.Get("/recent", handlers.Recent(d))
		r.Patch("/{id}", handlers.UpdateEntry(d))
		r.Delete("/{id}", handlers.DeleteEntry(d))
		r.Post("/{id}/visit", handlers.Visit(d))
	})
}
