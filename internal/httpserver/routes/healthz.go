package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/handlers"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/mw"
)

func init() { Register(registerHealthz) }

func registerHealthz(r chi.Router, d deps.Deps) {
	restricted := mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
	r.With(restricted).Get("/healthz", handlers.Healthz(d))
	r.With(restricted).Get("/infra", handlers.Infra(d))
}
