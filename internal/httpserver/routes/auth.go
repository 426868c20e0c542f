package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/handlers"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	r.Get("/auth/login", handlers.Login(d))
	r.Get("/auth/callback", handlers.Callback(d))
	r.With(mw.RequireUser(d.Auth, d.Logger)).Post("/auth/logout", handlers.Logout(d))
	r.With(mw.RequireUser(d.Auth, d.Logger)).Get("/auth/me", handlers.Me(d))
}
