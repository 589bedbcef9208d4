package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type clientWindow struct {
	count int
	start time.Time
}

// previewThrottle caps how many previews one client may render per window.
// Markdown rendering is CPU-bound, so the preview endpoint is the one route
// worth limiting.
type previewThrottle struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
	now     func() time.Time
}

func newPreviewThrottle(limit int, window time.Duration) *previewThrottle {
	return &previewThrottle{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// take records one render for client. When the client is over its limit it
// returns false and how long until the window rolls over.
func (t *previewThrottle) take(client string) (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for key, w := range t.clients {
		if now.Sub(w.start) >= t.window {
			delete(t.clients, key)
		}
	}

	w, ok := t.clients[client]
	if !ok {
		t.clients[client] = &clientWindow{count: 1, start: now}
		return true, 0
	}
	if w.count < t.limit {
		w.count++
		return true, 0
	}
	return false, t.window - now.Sub(w.start)
}

// middleware rejects over-limit clients with 429. r.RemoteAddr has already
// been rewritten by middleware.RealIP.
func (t *previewThrottle) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retry := t.take(r.RemoteAddr)
		if !ok {
			secs := int(retry.Seconds())
			if secs < 1 {
				secs = 1
			}
			slog.Warn("markdown preview throttled", "ip", r.RemoteAddr, "retry_after", retry)
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			http.Error(w, "Too many preview requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
