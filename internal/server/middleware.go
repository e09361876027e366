package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"idea-path/internal/common/auth"
	"idea-path/internal/common/errors"
)

type contextKey string

const claimsKey contextKey = "authClaims"

func claimsFrom(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return &auth.Claims{}
}

// requireAuth verifies the bearer token against the configured verifier.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerToken(r.Header.Get("Authorization"))
		if token == "" {
			s.writeError(w, errors.NewAuthRequiredError())
			return
		}

		claims, err := s.verifier.VerifyToken(r.Context(), token)
		if err != nil {
			s.writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		if s.obs != nil {
			status := strconv.Itoa(rec.status)
			s.obs.RecordRequestProcessed(r.Context(), status)
			s.obs.RecordRequestDuration(r.Context(), elapsed, status)
		}
		s.log.Info("request handled", map[string]interface{}{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  rec.status,
			"latency": elapsed.Milliseconds(),
		})
	})
}

// recoverer answers panics with a generic 500 body instead of a dropped
// connection.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("handler panic", map[string]interface{}{
					"path":  r.URL.Path,
					"panic": rec,
				})
				s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// rateLimiter is a fixed-window per-client counter protecting the shared
// AI provider quota. Windows reset lazily on access; expired entries are
// dropped on each sweepable touch.
type rateLimiter struct {
	mu       sync.Mutex
	windows  map[string]*rateWindow
	limit    int
	duration time.Duration
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

func newRateLimiter(limit int, duration time.Duration) *rateLimiter {
	return &rateLimiter{
		windows:  make(map[string]*rateWindow),
		limit:    limit,
		duration: duration,
	}
}

func (rl *rateLimiter) allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	win, ok := rl.windows[client]
	if !ok || now.After(win.resetAt) {
		rl.windows[client] = &rateWindow{count: 1, resetAt: now.Add(rl.duration)}
		return true
	}
	if win.count >= rl.limit {
		return false
	}
	win.count++
	return true
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			client = r.RemoteAddr
		}
		if !rl.allow(client) {
			w.Header().Set("Retry-After", "60")
			status := http.StatusTooManyRequests
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded, try again shortly"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
