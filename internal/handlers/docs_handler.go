// File: internal/handlers/docs_handler.go
package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"
)

//go:embed assets/openapi.json assets/docs.html
var assets embed.FS

var docsTemplate = template.Must(template.ParseFS(assets, "assets/docs.html"))

type DocsHandler struct {
	logger logrus.FieldLogger
}

func NewDocsHandler(logger logrus.FieldLogger) *DocsHandler {
	return &DocsHandler{logger: logger.WithField("component", "DocsHandler")}
}

// Schema serves the OpenAPI document.
func (h *DocsHandler) Schema(w http.ResponseWriter, r *http.Request) {
	body, err := assets.ReadFile("assets/openapi.json")
	if err != nil {
		h.logger.WithError(err).Error("openapi document missing from build")
		writeError(w, http.StatusInternalServerError, "Schema unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Docs renders the interactive API documentation page.
func (h *DocsHandler) Docs(w http.ResponseWriter, r *http.Request) {
	addSecurityHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := docsTemplate.Execute(w, map[string]interface{}{
		"Title":     "chatrelay API",
		"SchemaURL": "/openapi.json",
	})
	if err != nil {
		h.logger.WithError(err).Error("docs render failed")
	}
}

func addSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com; style-src 'self' https://unpkg.com")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
}
