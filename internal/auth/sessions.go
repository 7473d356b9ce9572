package auth

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/mlopez/lectorpdf/internal/config"
)

// Session data keys
const (
	SessionKeyEmail = "user_email"
)

// SessionManager wraps scs.SessionManager with application-specific
// methods. Sessions live in memory: a restart logs everyone out, which
// is acceptable for a single-user desktop-style app.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager.
func NewSessionManager(cfg config.Auth) *SessionManager {
	sm := scs.New()
	sm.Store = memstore.New()

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}
}

// CreateSession starts a session for a user after successful credential
// verification.
func (sm *SessionManager) CreateSession(r *http.Request, email string) error {
	// Renew token to prevent session fixation
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}
	sm.Put(r.Context(), SessionKeyEmail, email)
	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// GetUserEmail retrieves the logged-in email, or "" if unauthenticated.
func (sm *SessionManager) GetUserEmail(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyEmail)
}

// IsAuthenticated returns true if the request has a valid session.
func (sm *SessionManager) IsAuthenticated(r *http.Request) bool {
	return sm.GetUserEmail(r) != ""
}
