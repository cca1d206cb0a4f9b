// Package mockapi is an in-process fake of the learning platform backend.
// It serves the same REST surface as the real API from memory and can be
// told to fail or slow down requests.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/CrestNiraj12/skillfeed/domain"
	"github.com/CrestNiraj12/skillfeed/infra/api"
)

type fault struct {
	method string
	prefix string
	status int
}

// Server is the fake backend.
type Server struct {
	mu     sync.Mutex
	st     *store
	faults []fault
	delay  time.Duration
	log    *slog.Logger
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides time.Now for stamped fields.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.st.now = now }
}

// WithDelay makes every request wait d before being handled.
func WithDelay(d time.Duration) Option {
	return func(s *Server) { s.delay = d }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates an empty server.
func New(opts ...Option) *Server {
	s := &Server{
		st:  newStore(time.Now),
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

// Handler serves the API under /api.
func (s *Server) Handler() http.Handler { return s.router }

// SetDelay changes the artificial latency.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// FailNext makes the next request whose method matches and whose path
// (below /api) starts with pathPrefix fail with status. An empty method
// matches any method.
func (s *Server) FailNext(method, pathPrefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{method: method, prefix: pathPrefix, status: status})
}

// Serve listens on addr (e.g. "127.0.0.1:0") until ctx is done. It returns
// the API base URL once the listener is up.
func (s *Server) Serve(ctx context.Context, addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listening on %s: %w", addr, err)
	}
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("mock api stopped", "err", err)
		}
	}()
	return "http://" + ln.Addr().String() + "/api", nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.injectFaults)

	r.Route("/api", func(r chi.Router) {
		for _, kind := range domain.Kinds {
			r.Route(api.ResourcePath(kind), func(r chi.Router) {
				s.contentRoutes(r, kind)
			})
		}
		r.Route("/user", func(r chi.Router) {
			r.Get("/profile/{id}", s.handleProfile)
			r.Put("/profile/{id}", s.handleUpdateProfile)
			r.Get("/batch", s.handleBatch)
			r.Post("/{id}/follow", s.handleFollow(true))
			r.Post("/{id}/unfollow", s.handleFollow(false))
			r.Get("/{id}/post/count", s.handlePostCount)
		})
	})
	s.router = r
}

func (s *Server) contentRoutes(r chi.Router, kind domain.Kind) {
	h := contentHandlers{s: s, kind: kind}
	r.Get("/", h.list)
	r.Get("/user/{userID}", h.listByUser)
	r.With(requireAuth).Post("/user/{userID}", h.create)
	r.Get("/{id}", h.get)
	r.With(requireAuth).Put("/{id}", h.update)
	r.With(requireAuth).Delete("/{id}", h.remove)
	r.With(requireAuth).Post("/{id}/likes", h.addLike)
	r.With(requireAuth).Delete("/{id}/likes/{userID}", h.removeLike)
	r.With(requireAuth).Post("/{id}/comments", h.addComment)
	r.With(requireAuth).Put("/{id}/comments/{commentID}", h.updateComment)
	r.With(requireAuth).Delete("/{id}/comments/{commentID}", h.deleteComment)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("mock request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "request_id", r.Header.Get("X-Request-ID"), "elapsed", time.Since(start))
	})
}

func (s *Server) injectFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		delay := s.delay
		status := 0
		path := strings.TrimPrefix(r.URL.Path, "/api")
		for i, f := range s.faults {
			if (f.method == "" || f.method == r.Method) && strings.HasPrefix(path, f.prefix) {
				status = f.status
				s.faults = append(s.faults[:i:i], s.faults[i+1:]...)
				break
			}
		}
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			writeError(w, status, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeItem(w http.ResponseWriter, status int, it domain.Item) {
	data, err := api.ItemToJSON(it)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeItems(w http.ResponseWriter, items []domain.Item) {
	raw := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		data, err := api.ItemToJSON(it)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		raw = append(raw, data)
	}
	writeJSON(w, http.StatusOK, raw)
}

func readJSON(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, 32<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
