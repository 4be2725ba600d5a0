// Package session manages the server-side authentication session for a
// browser client. The session identifier travels in a signed cookie; the
// session state is encrypted before it reaches the backing store.
package session

import (
	"context"
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

const (
	// CookieName carries the signed session identifier.
	CookieName = "session_id"

	// TTL is absolute from creation. There is no sliding renewal.
	TTL = 1 * time.Hour
)

// State is what the store holds for one session.
type State struct {
	Authenticated bool
	Username      string
	ExpiresAt     time.Time
}

// Store persists encrypted session blobs keyed by session ID. A missing or
// expired session loads as the empty string with a nil error.
type Store interface {
	Load(ctx context.Context, id string) (string, error)
	Save(ctx context.Context, id, blob string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Manager creates, reads, and destroys sessions. It is constructed once in
// main and injected into handlers.
type Manager struct {
	store  Store
	cookie *securecookie.SecureCookie // signs the ID in the cookie
	rest   *securecookie.SecureCookie // encrypts state in the store
	now    func() time.Time
}

// NewManager builds a manager over the given store. cookieSecret signs the
// session cookie; sessionSecret encrypts session payloads at rest.
func NewManager(store Store, cookieSecret, sessionSecret string) *Manager {
	cookieHash := sha256.Sum256([]byte(cookieSecret))
	restHash := sha256.Sum256([]byte(sessionSecret + ":mac"))
	restBlock := sha256.Sum256([]byte(sessionSecret))

	return &Manager{
		store:  store,
		cookie: securecookie.New(cookieHash[:], nil),
		rest:   securecookie.New(restHash[:], restBlock[:]),
		now:    time.Now,
	}
}

// Create marks the client authenticated as username, persists the state
// with a fresh 1-hour expiry, and issues the session cookie.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, username string) error {
	id := uuid.NewString()
	state := State{
		Authenticated: true,
		Username:      username,
		ExpiresAt:     m.now().Add(TTL),
	}

	blob, err := m.rest.Encode(CookieName, state)
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, id, blob, TTL); err != nil {
		return err
	}

	signed, err := m.cookie.Encode(CookieName, id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Current returns the request's session state and whether it counts as
// authenticated. Missing, tampered, expired, and unauthenticated sessions
// all come back as (zero, false).
func (m *Manager) Current(ctx context.Context, r *http.Request) (State, bool) {
	id, ok := m.sessionID(r)
	if !ok {
		return State{}, false
	}

	blob, err := m.store.Load(ctx, id)
	if err != nil || blob == "" {
		return State{}, false
	}

	var state State
	if err := m.rest.Decode(CookieName, blob, &state); err != nil {
		return State{}, false
	}
	if !state.Authenticated || !m.now().Before(state.ExpiresAt) {
		return State{}, false
	}
	return state, true
}

// Destroy invalidates the request's session and clears the cookie. Later
// requests presenting the same identifier are unauthenticated.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if id, ok := m.sessionID(r); ok {
		err = m.store.Delete(ctx, id)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return err
}

func (m *Manager) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	var id string
	if err := m.cookie.Decode(CookieName, cookie.Value, &id); err != nil {
		return "", false
	}
	return id, true
}
