// Package auth implements sign-in through Google OAuth and session
// tokens carried in an HTTP-only cookie.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/utils"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "auth_token"
	// stateCookie carries the OAuth CSRF state between redirects.
	stateCookie = "oauthstate"

	userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo?access_token="
)

// User is the identity resolved from the OAuth provider.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Config configures the auth service.
type Config struct {
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	JWTSecret     string
	SessionTTL    time.Duration
	AllowedEmails []string // optional allowlist, empty = everyone
	SecureCookies bool     // true in production (HTTPS only)
}

// Service performs the OAuth code flow and issues session tokens.
type Service struct {
	oauth         *oauth2.Config
	jwtSecret     []byte
	sessionTTL    time.Duration
	allowedEmails []string
	secureCookies bool
}

// New creates the auth service.
func New(cfg Config) *Service {
	return &Service{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		jwtSecret:     []byte(cfg.JWTSecret),
		sessionTTL:    cfg.SessionTTL,
		allowedEmails: cfg.AllowedEmails,
		secureCookies: cfg.SecureCookies,
	}
}

// BeginLogin sets the state cookie and returns the provider URL to
// redirect the browser to.
func (s *Service) BeginLogin(w http.ResponseWriter) string {
	state := s.setStateCookie(w)
	return s.oauth.AuthCodeURL(state)
}

// VerifyState checks the callback state against the cookie value.
func (s *Service) VerifyState(r *http.Request) error {
	cookie, err := r.Cookie(stateCookie)
	if err != nil {
		return fmt.Errorf("missing oauth state cookie: %w", err)
	}
	if r.FormValue("state") != cookie.Value {
		return fmt.Errorf("oauth state mismatch")
	}
	return nil
}

// Exchange swaps the authorization code for the provider identity.
func (s *Service) Exchange(ctx context.Context, code string) (*User, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL+token.AccessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer utils.Close(resp.Body)

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("provider returned no user id")
	}

	if len(s.allowedEmails) > 0 && !contains(s.allowedEmails, user.Email) {
		return nil, fmt.Errorf("email %s not in allowlist", user.Email)
	}

	return &user, nil
}

// SetSessionCookie issues a session token for the user and attaches it
// as an HTTP-only cookie.
func (s *Service) SetSessionCookie(w http.ResponseWriter, userID string) error {
	token, expires, err := s.IssueToken(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSessionCookie expires the session cookie.
func (s *Service) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Service) setStateCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(20 * time.Minute),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return state
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
