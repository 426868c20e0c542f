package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/handlers"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/mw"
)

func init() { Register(registerQueries) }

func registerQueries(r chi.Router, d deps.Deps) {
	auth := mw.RequireUser(d.Auth, d.Logger)
	r.With(auth).Get("/api/search", handlers.Search(d))
	r.With(auth).Get("/api/tags", handlers.Tags(d))
	r.With(auth).Get("/api/tags/{tag}", handlers.ByTag(d))
}
