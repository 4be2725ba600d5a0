// Package auth implements password hashing and the signup, login, and
// logout handlers.
package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aydenq/members-only/internal/models"
	"github.com/aydenq/members-only/internal/session"
	"github.com/aydenq/members-only/internal/validate"
	"github.com/aydenq/members-only/internal/web"
)

// UserStore defines the interface for credential persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetUsersByEmail(ctx context.Context, email string) ([]models.User, error)
	Exists(ctx context.Context, username, email string) (bool, error)
}

// Handler holds the auth HTTP handlers.
type Handler struct {
	users    UserStore
	sessions *session.Manager
	validate *validate.Validator
	render   *web.Renderer
	log      *slog.Logger
}

func NewHandler(users UserStore, sessions *session.Manager, v *validate.Validator, render *web.Renderer, log *slog.Logger) *Handler {
	return &Handler{users: users, sessions: sessions, validate: v, render: render, log: log}
}

// SignupPage renders the signup form.
func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, http.StatusOK, "signup.html", nil)
}

// SignupSubmit validates the form, creates the user, opens a session, and
// redirects to /members. Nothing is stored when validation fails.
func (h *Handler) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.HTML(w, http.StatusBadRequest, "validation_error.html", map[string]any{
			"Message": "could not parse the submitted form",
		})
		return
	}

	form := models.SignupForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Email:    r.PostFormValue("email"),
	}

	if ferr := h.validate.Struct(form); ferr != nil {
		h.render.HTML(w, http.StatusOK, "validation_error.html", map[string]any{
			"Message": ferr.Message,
		})
		return
	}

	taken, err := h.users.Exists(r.Context(), form.Username, form.Email)
	if err != nil {
		h.render.ServerError(w, err)
		return
	}
	if taken {
		h.render.HTML(w, http.StatusOK, "validation_error.html", map[string]any{
			"Message": "an account with that username or email already exists",
		})
		return
	}

	hash, err := HashPassword(form.Password)
	if err != nil {
		h.render.ServerError(w, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), form.Username, form.Email, hash)
	if err != nil {
		h.render.ServerError(w, err)
		return
	}
	h.log.Info("user signed up", "username", user.Username)

	if err := h.sessions.Create(r.Context(), w, user.Username); err != nil {
		h.render.ServerError(w, err)
		return
	}
	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

// LoginPage renders the login form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, http.StatusOK, "login.html", nil)
}

// LoggingIn authenticates an email/password pair. Zero matches, multiple
// matches, and a hash mismatch all render the same invalid-login view so
// the response never reveals which check failed.
func (h *Handler) LoggingIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.HTML(w, http.StatusBadRequest, "validation_error.html", map[string]any{
			"Message": "could not parse the submitted form",
		})
		return
	}

	form := models.LoginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	if ferr := h.validate.Struct(form); ferr != nil {
		h.render.HTML(w, http.StatusOK, "validation_error.html", map[string]any{
			"Message": ferr.Message,
		})
		return
	}

	users, err := h.users.GetUsersByEmail(r.Context(), form.Email)
	if err != nil {
		h.render.ServerError(w, err)
		return
	}

	if len(users) != 1 || !CheckPassword(form.Password, users[0].PasswordHash) {
		h.render.HTML(w, http.StatusOK, "invalid_login.html", nil)
		return
	}

	if err := h.sessions.Create(r.Context(), w, users[0].Username); err != nil {
		h.render.ServerError(w, err)
		return
	}
	h.log.Info("user logged in", "username", users[0].Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout destroys the session and redirects home.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		h.log.Error("destroy session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
