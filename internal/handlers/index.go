package handlers

import (
	"net/http"
	"strings"
)

// Banner lists the public routes.
var Banner = "FileStation AI backend running: " + strings.Join([]string{
	"/register", "/login", "/me", "/save-file", "/files", "/chat",
	"/generate-telegram-token", "/save-telegram-chat",
}, " ")

// IndexHandler serves the plain-text banner at the root path.
type IndexHandler struct{}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler() *IndexHandler {
	return &IndexHandler{}
}

// ServeHTTP writes the banner.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(Banner))
}
