// Package httpapi serves the dashboard's JSON API: authentication, single
// address lookups, the comps card, batch enrichment runs, the endpoint
// catalog, and usage reporting.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/acumidata/propdash/pkg/auth"
	"github.com/acumidata/propdash/pkg/batch"
	"github.com/acumidata/propdash/pkg/logging"
	"github.com/acumidata/propdash/pkg/relar"
	"github.com/acumidata/propdash/pkg/session"
	"github.com/acumidata/propdash/pkg/usage"
)

// Provider issues calls against the valuation API. *acumidata.Client
// satisfies this.
type Provider interface {
	FetchReport(ctx context.Context, addr relar.Address, kind relar.Kind) (map[string]any, error)
	CompsAdvantage(ctx context.Context, addr relar.Address) (map[string]any, error)
}

// Sessions manages login tokens. *session.Store satisfies this.
type Sessions interface {
	Create(ctx context.Context, username string) (*session.Session, error)
	Get(ctx context.Context, token string) (*session.Session, error)
	Delete(ctx context.Context, token string) error
}

// UsageReader serves today's provider consumption. *usage.Tracker
// satisfies this.
type UsageReader interface {
	Today(ctx context.Context) (*usage.State, error)
}

// Server holds the API's collaborators.
type Server struct {
	provider Provider
	runner   *batch.Runner
	users    *auth.Store
	sessions Sessions
	usage    UsageReader
	registry *Registry

	defaultConcurrency int
	logger             zerolog.Logger
}

// Config wires a Server.
type Config struct {
	Provider Provider
	Users    *auth.Store
	Sessions Sessions
	Usage    UsageReader

	// DefaultConcurrency is used when a submission does not choose one.
	DefaultConcurrency int
}

// NewServer creates the API server.
func NewServer(cfg Config) *Server {
	if cfg.DefaultConcurrency == 0 {
		cfg.DefaultConcurrency = batch.DefaultConcurrency
	}
	return &Server{
		provider:           cfg.Provider,
		runner:             batch.NewRunner(cfg.Provider),
		users:              cfg.Users,
		sessions:           cfg.Sessions,
		usage:              cfg.Usage,
		registry:           NewRegistry(),
		defaultConcurrency: cfg.DefaultConcurrency,
		logger:             logging.NewLogger("httpapi"),
	}
}

// Router builds the chi router for the API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			// Credential guessing protection.
			r.Use(httprate.LimitByIP(10, time.Minute))
			r.Post("/auth/login", s.handleLogin)
			r.Post("/auth/signup", s.handleSignup)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/auth/logout", s.handleLogout)
			r.Get("/lookup", s.handleLookup)
			r.Get("/comps", s.handleComps)
			r.Get("/endpoints", s.handleEndpoints)
			r.Get("/usage", s.handleUsage)

			r.Group(func(r chi.Router) {
				// Each submission fans out up to 10 provider calls at
				// a time, so batch creation is limited harder.
				r.Use(httprate.LimitByIP(5, time.Minute))
				r.Post("/batch", s.handleBatchSubmit)
			})
			r.Get("/batch/{id}", s.handleBatchStatus)
			r.Get("/batch/{id}/export", s.handleBatchExport)
		})
	})

	return r
}

type contextKey string

// usernameKey carries the authenticated username through a request.
const usernameKey contextKey = "username"

// requireSession authenticates the bearer token and stows the username in
// the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}

		sess, err := s.sessions.Get(r.Context(), token)
		if err != nil {
			if err == session.ErrNotFound {
				s.writeError(w, r, http.StatusUnauthorized, "invalid or expired session")
				return
			}
			s.logger.Error().Err(err).Msg("Session lookup failed")
			s.writeError(w, r, http.StatusInternalServerError, "session lookup failed")
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, sess.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

// username reads the authenticated username from the request context.
func username(r *http.Request) string {
	name, _ := r.Context().Value(usernameKey).(string)
	return name
}

// writeError renders a JSON error body with the given status.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
