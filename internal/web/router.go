package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/justinas/nosurf"

	"github.com/acgh213/socialkit/internal/config"
	"github.com/acgh213/socialkit/internal/sanitize"
)

type Server struct {
	cfg     *config.Config
	opts    sanitize.Options
	limiter *previewThrottle
}

func NewRouter(cfg *config.Config) http.Handler {
	s := &Server{
		cfg:     cfg,
		opts:    cfg.SanitizeOptions(),
		limiter: newPreviewThrottle(cfg.PreviewRateLimit, time.Minute),
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	if cfg.CSRFEnabled {
		r.Use(csrfProtect(cfg.IsDevelopment()))
	}

	r.Get("/health", s.handleHealth)

	r.Route("/markdown", func(r chi.Router) {
		r.Get("/csrf", s.handleCSRFToken)
		r.With(s.throttle).Post("/preview", s.handlePreview)
	})

	return r
}

// throttle applies the per-client preview limit, if one is configured.
func (s *Server) throttle(next http.Handler) http.Handler {
	if s.cfg.PreviewRateLimit <= 0 {
		return next
	}
	return s.limiter.middleware(next)
}

// csrfProtect wraps nosurf for CSRF protection.
func csrfProtect(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		csrf := nosurf.New(next)
		csrf.SetBaseCookie(http.Cookie{
			Name:     "csrf_token",
			Path:     "/",
			HttpOnly: true,
			Secure:   !isDev,
			SameSite: http.SameSiteLaxMode,
		})
		// Detect TLS from the actual request (X-Forwarded-Proto or r.TLS)
		csrf.SetIsTLSFunc(func(r *http.Request) bool {
			if r.TLS != nil {
				return true
			}
			return r.Header.Get("X-Forwarded-Proto") == "https"
		})
		csrf.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("CSRF validation failed",
				"method", r.Method,
				"path", r.URL.Path,
				"reason", nosurf.Reason(r),
				"ip", r.RemoteAddr,
			)
			http.Error(w, "Forbidden - invalid CSRF token", http.StatusForbidden)
		}))
		return csrf
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
