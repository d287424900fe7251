package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"bikepulse/internal/config"
	"bikepulse/pkg/contracts"
)

// IndexPage is the dashboard page template inside the frontend filesystem
const IndexPage = "index.html"

// PageData is passed to the dashboard page template
type PageData struct {
	Title   string
	Version string
}

// PageHandler serves the dashboard page from an embedded filesystem
type PageHandler struct {
	tmpl   *template.Template
	assets http.Handler
	logger *slog.Logger
}

// NewPageHandler parses the page template once at startup
func NewPageHandler(frontend fs.FS, logger *slog.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFS(frontend, IndexPage)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", IndexPage, err)
	}
	return &PageHandler{
		tmpl:   tmpl,
		assets: http.FileServer(http.FS(frontend)),
		logger: logger.With(slog.String("handler", "page")),
	}, nil
}

// ServeIndex handles GET /
func (h *PageHandler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	data := PageData{Title: config.AppTitle, Version: contracts.Version}
	if err := h.tmpl.Execute(&buf, data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page",
			slog.String("error", err.Error()))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = buf.WriteTo(w)
}

// ServeAssets serves the remaining frontend files under /static/
func (h *PageHandler) ServeAssets() http.Handler {
	return http.StripPrefix("/static/", h.assets)
}
