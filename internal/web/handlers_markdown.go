package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/justinas/nosurf"

	"github.com/acgh213/socialkit/internal/content"
)

type previewResponse struct {
	Preview string `json:"preview"`
}

// handlePreview renders the posted markdown without storing it.
// POST /markdown/preview
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.PreviewMaxBytes)
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "Markdown too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.PreviewTimeout)
	defer cancel()

	rendered, err := content.RenderMarkdownContext(ctx, r.FormValue("content"), s.opts, int(s.cfg.PreviewMaxBytes))
	switch {
	case errors.Is(err, content.ErrSourceTooLarge):
		http.Error(w, "Markdown too large", http.StatusRequestEntityTooLarge)
		return
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("markdown preview timed out", "timeout", s.cfg.PreviewTimeout)
		http.Error(w, "Preview timed out", http.StatusGatewayTimeout)
		return
	case err != nil:
		slog.Error("failed to render markdown preview", "error", err)
		http.Error(w, "Failed to render markdown", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{Preview: rendered})
}

// handleCSRFToken hands the masked token to script clients of the preview.
// GET /markdown/csrf
func (s *Server) handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"csrf_token": nosurf.Token(r)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
