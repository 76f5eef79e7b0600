// Package auth is the pass/fail sign-in gate in front of the admin views.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"visitor-console/internal/session"
)

// CookieName carries the admin session id.
const CookieName = "visitor_admin"

// ErrInvalidCredentials is returned by SignIn on a bad username or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Gate reports whether a request belongs to a signed-in admin.
type Gate interface {
	Authenticated(r *http.Request) bool
}

// Credentials is the single configured admin account.
type Credentials struct {
	Username string
	Password string
}

// Authenticator checks credentials and tracks signed-in admins by cookie.
type Authenticator struct {
	creds    Credentials
	sessions *session.Store[string]
	ttl      time.Duration
	secure   bool
}

// New returns an Authenticator. An empty password disables sign-in.
func New(creds Credentials, ttl time.Duration) *Authenticator {
	return &Authenticator{
		creds:    creds,
		sessions: session.NewStore[string](ttl),
		ttl:      ttl,
	}
}

// SecureCookies marks issued cookies Secure.
func (a *Authenticator) SecureCookies(on bool) { a.secure = on }

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// SignIn checks username and password and sets the session cookie.
func (a *Authenticator) SignIn(w http.ResponseWriter, username, password string) error {
	if a.creds.Password == "" {
		return ErrInvalidCredentials
	}
	userOK := equal(username, a.creds.Username)
	passOK := equal(password, a.creds.Password)
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}

	id := a.sessions.Create(username)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(a.ttl.Seconds()),
	})
	return nil
}

// SignOut forgets the session and clears the cookie.
func (a *Authenticator) SignOut(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieName); err == nil {
		a.sessions.Delete(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}

// Authenticated implements Gate.
func (a *Authenticator) Authenticated(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return false
	}
	_, ok := a.sessions.Get(c.Value)
	return ok
}

// Sweep drops expired admin sessions.
func (a *Authenticator) Sweep() int { return a.sessions.Sweep() }

// Run sweeps expired admin sessions every interval until ctx is done.
func (a *Authenticator) Run(ctx context.Context, interval time.Duration) {
	a.sessions.Run(ctx, interval)
}

// Require renders nothing but a 401 until the gate passes.
func Require(g Gate, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.Authenticated(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
