// Package auth gates the admin area behind a single static password. This
// is an access convenience, not a security boundary: the password hash and
// session key come from configuration.
package auth

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionName = "pressing-session"
	adminKey    = "admin"
)

// Gate authenticates the admin session.
type Gate struct {
	store        *sessions.CookieStore
	passwordHash []byte
}

// NewGate creates a gate from a bcrypt password hash and a session key.
func NewGate(passwordHash, sessionKey string) (*Gate, error) {
	if len(sessionKey) < 32 {
		return nil, errors.New("session key must be at least 32 characters long")
	}
	if passwordHash == "" {
		return nil, errors.New("admin password hash is required")
	}
	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options.HttpOnly = true
	store.Options.Path = "/"
	store.Options.SameSite = http.SameSiteLaxMode // Protect against CSRF
	return &Gate{store: store, passwordHash: []byte(passwordHash)}, nil
}

// HashPassword produces the bcrypt hash to put in the configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login verifies the password and opens an admin session.
func (g *Gate) Login(w http.ResponseWriter, r *http.Request, password string) error {
	if err := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)); err != nil {
		return errors.New("wrong password")
	}

	session, _ := g.store.Get(r, sessionName)
	session.Values[adminKey] = true

	// Set Secure based on the request scheme or X-Forwarded-Proto, for
	// correct behavior behind reverse proxies.
	session.Options.Secure = secureRequest(r)

	return session.Save(r, w)
}

// Logout destroys the admin session.
func (g *Gate) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := g.store.Get(r, sessionName)
	delete(session.Values, adminKey)
	session.Options.Secure = secureRequest(r)
	session.Save(r, w)
}

// IsAdmin reports whether the request carries an admin session.
func (g *Gate) IsAdmin(r *http.Request) bool {
	session, _ := g.store.Get(r, sessionName)
	admin, ok := session.Values[adminKey].(bool)
	return ok && admin
}

// RequireAdmin redirects unauthenticated requests to the login page.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.IsAdmin(r) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureRequest(r *http.Request) bool {
	return r.URL.Scheme == "https" || r.Header.Get("X-Forwarded-Proto") == "https"
}
