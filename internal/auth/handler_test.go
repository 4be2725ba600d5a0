package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aydenq/members-only/internal/models"
	"github.com/aydenq/members-only/internal/session"
	"github.com/aydenq/members-only/internal/validate"
	"github.com/aydenq/members-only/internal/web"
)

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	mu      sync.Mutex
	users   []models.User
	nextErr error
}

func (s *fakeUserStore) CreateUser(_ context.Context, username, email, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextErr != nil {
		return nil, s.nextErr
	}
	u := models.User{ID: "u1", Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.users = append(s.users, u)
	return &u, nil
}

func (s *fakeUserStore) GetUsersByEmail(_ context.Context, email string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		if u.Email == email {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) Exists(_ context.Context, username, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username || (email != "" && u.Email == email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// memSessionStore is an in-memory session.Store.
type memSessionStore struct {
	mu    sync.Mutex
	blobs map[string]string
}

func (s *memSessionStore) Load(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blobs[id], nil
}

func (s *memSessionStore) Save(_ context.Context, id, blob string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[id] = blob
	return nil
}

func (s *memSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, id)
	return nil
}

type fixture struct {
	handler  *Handler
	users    *fakeUserStore
	sessions *session.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer, err := web.NewRenderer("../../web/templates", logger)
	require.NoError(t, err)

	users := &fakeUserStore{}
	sessions := session.NewManager(&memSessionStore{blobs: make(map[string]string)}, "cookie-secret", "session-secret")
	return &fixture{
		handler:  NewHandler(users, sessions, validate.New(), renderer, logger),
		users:    users,
		sessions: sessions,
	}
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func signupForm(username, password, email string) url.Values {
	return url.Values{"username": {username}, "password": {password}, "email": {email}}
}

func loginForm(email, password string) url.Values {
	return url.Values{"email": {email}, "password": {password}}
}

// withCookies copies the recorder's cookies onto a fresh GET request.
func withCookies(rec *httptest.ResponseRecorder, path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSignupSubmitCreatesUserAndSession(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.SignupSubmit(rec, postForm("/signupSubmit", signupForm("alice", "secret1", "a@b.com")))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/members", rec.Header().Get("Location"))

	require.Equal(t, 1, f.users.count())
	stored := f.users.users[0]
	require.Equal(t, "alice", stored.Username)
	require.NotEqual(t, "secret1", stored.PasswordHash)
	require.True(t, CheckPassword("secret1", stored.PasswordHash))

	state, ok := f.sessions.Current(context.Background(), withCookies(rec, "/members"))
	require.True(t, ok)
	require.Equal(t, "alice", state.Username)
}

func TestSignupSubmitInvalidPayloadMutatesNothing(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.SignupSubmit(rec, postForm("/signupSubmit", signupForm("al!ce", "x", "a@b.com")))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "must only contain alpha-numeric characters")
	require.Zero(t, f.users.count())
	require.Empty(t, rec.Result().Cookies())
}

func TestSignupSubmitRejectsDuplicates(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.SignupSubmit(rec, postForm("/signupSubmit", signupForm("alice", "secret1", "a@b.com")))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = httptest.NewRecorder()
	f.handler.SignupSubmit(rec, postForm("/signupSubmit", signupForm("alice", "other", "other@b.com")))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "already exists")
	require.Equal(t, 1, f.users.count())
}

func TestLoggingInSuccessOpensSession(t *testing.T) {
	f := newFixture(t)
	f.handler.SignupSubmit(httptest.NewRecorder(), postForm("/signupSubmit", signupForm("alice", "secret1", "a@b.com")))

	rec := httptest.NewRecorder()
	f.handler.LoggingIn(rec, postForm("/loggingIn", loginForm("a@b.com", "secret1")))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	state, ok := f.sessions.Current(context.Background(), withCookies(rec, "/members"))
	require.True(t, ok)
	require.Equal(t, "alice", state.Username)
}

func TestLoggingInFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.handler.SignupSubmit(httptest.NewRecorder(), postForm("/signupSubmit", signupForm("alice", "secret1", "a@b.com")))

	wrongPw := httptest.NewRecorder()
	f.handler.LoggingIn(wrongPw, postForm("/loggingIn", loginForm("a@b.com", "nope")))

	unknownEmail := httptest.NewRecorder()
	f.handler.LoggingIn(unknownEmail, postForm("/loggingIn", loginForm("nobody@b.com", "secret1")))

	require.Equal(t, wrongPw.Code, unknownEmail.Code)
	require.Equal(t, wrongPw.Body.String(), unknownEmail.Body.String())
	require.Empty(t, wrongPw.Result().Cookies())
	require.Empty(t, unknownEmail.Result().Cookies())
}

func TestLoggingInValidationFailure(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.LoggingIn(rec, postForm("/loggingIn", loginForm("", "secret1")))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `&#34;email&#34; is required`)
	require.Empty(t, rec.Result().Cookies())
}

func TestLogoutDestroysSession(t *testing.T) {
	f := newFixture(t)

	signupRec := httptest.NewRecorder()
	f.handler.SignupSubmit(signupRec, postForm("/signupSubmit", signupForm("alice", "secret1", "a@b.com")))

	logoutReq := withCookies(signupRec, "/logout")
	logoutRec := httptest.NewRecorder()
	f.handler.Logout(logoutRec, logoutReq)

	require.Equal(t, http.StatusSeeOther, logoutRec.Code)
	require.Equal(t, "/", logoutRec.Header().Get("Location"))

	// The old identifier no longer authenticates.
	_, ok := f.sessions.Current(context.Background(), withCookies(signupRec, "/members"))
	require.False(t, ok)
}
