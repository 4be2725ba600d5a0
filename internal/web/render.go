// Package web renders the HTML views and serves the page handlers that
// are not part of the auth flow.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// Renderer executes the parsed view templates. Pages render into a buffer
// first so a template error never sends a torn body.
type Renderer struct {
	tmpl *template.Template
	log  *slog.Logger
}

// NewRenderer parses every *.html view in dir once, at startup.
func NewRenderer(dir string, log *slog.Logger) (*Renderer, error) {
	tmpl, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, log: log}, nil
}

// HTML renders the named view with the given status code.
func (rn *Renderer) HTML(w http.ResponseWriter, status int, name string, data any) {
	buf := new(bytes.Buffer)
	if err := rn.tmpl.ExecuteTemplate(buf, name, data); err != nil {
		rn.log.Error("render view", "view", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// ServerError logs err and renders the 500 view.
func (rn *Renderer) ServerError(w http.ResponseWriter, err error) {
	rn.log.Error("request failed", "error", err)
	rn.HTML(w, http.StatusInternalServerError, "error.html", nil)
}
