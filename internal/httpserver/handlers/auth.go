package handlers

import (
	"net/http"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/mw"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
)

// Login starts the OAuth code flow.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url := d.Auth.BeginLogin(w)
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
	}
}

// Callback finishes the OAuth code flow, opens the user's session and
// sends the browser back to the frontend.
func Callback(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Auth.VerifyState(r); err != nil {
			d.Logger.Warn("oauth state check failed", logger.Error(err))
			writeError(w, http.StatusBadRequest, "invalid oauth state")
			return
		}

		user, err := d.Auth.Exchange(r.Context(), r.FormValue("code"))
		if err != nil {
			d.Logger.Warn("oauth exchange failed", logger.Error(err))
			writeError(w, http.StatusUnauthorized, "sign-in failed")
			return
		}

		if err := d.Auth.SetSessionCookie(w, user.ID); err != nil {
			d.Logger.Error("failed to issue session token", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "sign-in failed")
			return
		}

		// Warm the session so the first data request is fast. Failure
		// here is not fatal, the session opens lazily later.
		if _, err := d.Sessions.Open(r.Context(), user.ID); err != nil {
			d.Logger.Warn("failed to warm session after sign-in",
				logger.String("user_id", user.ID),
				logger.Error(err))
		}

		d.Logger.Info("user signed in",
			logger.String("user_id", user.ID),
			logger.String("email", user.Email))

		http.Redirect(w, r, d.FrontendURL, http.StatusTemporaryRedirect)
	}
}

// Logout tears down the session and clears the cookie.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if userID := mw.UserID(r.Context()); userID != "" {
			d.Sessions.Close(userID)
			d.Logger.Info("user signed out", logger.String("user_id", userID))
		}
		d.Auth.ClearSessionCookie(w)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// Me reports the authenticated user id, mainly for the frontend to
// probe sign-in state.
func Me(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"user_id": mw.UserID(r.Context())})
	}
}
