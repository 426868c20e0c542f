package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/handlers"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/mw"
)

func init() { Register(registerImport) }

func registerImport(r chi.Router, d deps.Deps) {
	r.With(mw.RequireUser(d.Auth, d.Logger)).Post("/api/import", handlers.Import(d))
}
