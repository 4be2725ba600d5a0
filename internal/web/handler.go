package web

import (
	"log/slog"
	"net/http"

	"github.com/aydenq/members-only/internal/images"
	"github.com/aydenq/members-only/internal/session"
)

// Handler serves the home page, the gated members page, and the 404 view.
type Handler struct {
	sessions *session.Manager
	images   images.Source
	render   *Renderer
	log      *slog.Logger
}

func NewHandler(sessions *session.Manager, imgs images.Source, render *Renderer, log *slog.Logger) *Handler {
	return &Handler{sessions: sessions, images: imgs, render: render, log: log}
}

// Home renders the logged-in or logged-out landing page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	state, ok := h.sessions.Current(r.Context(), r)
	if ok {
		h.render.HTML(w, http.StatusOK, "index_logged_in.html", map[string]any{
			"Username": state.Username,
		})
		return
	}
	h.render.HTML(w, http.StatusOK, "index_logged_out.html", nil)
}

// Members shows the authenticated user a random image. Unauthenticated
// requests bounce to /.
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	state, ok := h.sessions.Current(r.Context(), r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	imageURL, err := h.images.Random(r.Context())
	if err != nil {
		h.render.ServerError(w, err)
		return
	}

	h.render.HTML(w, http.StatusOK, "members.html", map[string]any{
		"Username": state.Username,
		"ImageURL": imageURL,
	})
}

// NotFound is the catch-all for unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, http.StatusNotFound, "404.html", nil)
}
