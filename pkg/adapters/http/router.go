package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aretw0/sessiondb/internal/logging"
	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOption configures NewRouter.
type RouterOption func(*routerConfig)

type routerConfig struct {
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	required bool
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) RouterOption {
	return func(c *routerConfig) {
		c.logger = logger
	}
}

// WithMetrics serves gatherer on /metrics.
func WithMetrics(gatherer prometheus.Gatherer) RouterOption {
	return func(c *routerConfig) {
		c.gatherer = gatherer
	}
}

// WithRequired makes the session routes refuse to create new sessions.
func WithRequired(required bool) RouterOption {
	return func(c *routerConfig) {
		c.required = required
	}
}

// sessionView is the JSON shape of GET /session.
type sessionView struct {
	State string         `json:"state"`
	Token string         `json:"token,omitempty"`
	Data  map[string]any `json:"data"`
}

// NewRouter exposes the session of the caller over HTTP:
//
//	GET    /session        current state, data and request token
//	PUT    /session        merge a JSON object into the data
//	POST   /session/close  save now and skip the end-of-request save
//	DELETE /session        destroy the session
//	GET    /health
//	GET    /metrics        when WithMetrics is set
func NewRouter(b Beginner, opts ...RouterOption) http.Handler {
	cfg := &routerConfig{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, cfg.logger)
	})
	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/session", func(r chi.Router) {
		r.Use(Middleware(b, cfg.required, cfg.logger))
		r.Use(RequireToken)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			lc, ok := FromContext(r.Context())
			if !ok || !lc.Active() {
				writeJSON(w, http.StatusUnauthorized, sessionView{State: stateOf(lc)}, cfg.logger)
				return
			}
			writeJSON(w, http.StatusOK, sessionView{
				State: lc.State().String(),
				Token: lc.RequestToken(),
				Data:  lc.Data(),
			}, cfg.logger)
		})

		r.Put("/", func(w http.ResponseWriter, r *http.Request) {
			lc, ok := FromContext(r.Context())
			if !ok || !lc.Active() {
				http.Error(w, "no session", http.StatusUnauthorized)
				return
			}
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				cfg.logger.Warn("Session update: invalid request body", "err", err)
				return
			}
			for k, v := range body {
				if v == nil {
					lc.Unset(k)
					continue
				}
				lc.Set(k, v)
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Post("/close", func(w http.ResponseWriter, r *http.Request) {
			lc, ok := FromContext(r.Context())
			if !ok || !lc.Active() {
				http.Error(w, "no session", http.StatusUnauthorized)
				return
			}
			if err := lc.CloseEarly(r.Context()); err != nil {
				http.Error(w, "session not saved", statusOf(err))
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			lc, ok := FromContext(r.Context())
			jar, _ := jarFromContext(r.Context())
			if !ok {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			if err := lc.Destroy(r.Context(), jar); err != nil {
				http.Error(w, "session not destroyed", statusOf(err))
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return r
}

func stateOf(lc *session.Lifecycle) string {
	if lc == nil {
		return domain.StateUnstarted.String()
	}
	return lc.State().String()
}

func statusOf(err error) int {
	if domain.Kind(err) == "connection" {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}
