// Package httpapi is the HTTP transport layer: routing, request decoding,
// the bearer-token guard and the mapping from domain errors to responses.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"taskora.org/api/spec"
	"taskora.org/internal/auth"
	"taskora.org/internal/obs"
	"taskora.org/internal/task"
)

// ReadyProbe checks the dependencies the service needs to accept traffic.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Config carries the transport-level knobs.
type Config struct {
	Version        string
	AllowedOrigins []string
	MaxBodyBytes   int64
	RateLimitRPS   int
	RateLimitBurst int
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "dev"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 1 << 20
	}
	if c.RateLimitRPS <= 0 {
		c.RateLimitRPS = 50
	}
	if c.RateLimitBurst <= 0 {
		c.RateLimitBurst = 100
	}
}

// API is the HTTP layer.
type API struct {
	mux   *http.ServeMux
	auth  *auth.Service
	tasks *task.Service
	ready ReadyProbe
	cfg   Config
	log   zerolog.Logger
}

// New wires the routes. Handler() returns the result wrapped with the
// middleware chain.
func New(authSvc *auth.Service, tasks *task.Service, rp ReadyProbe, cfg Config, log zerolog.Logger) *API {
	cfg.applyDefaults()
	a := &API{
		mux:   http.NewServeMux(),
		auth:  authSvc,
		tasks: tasks,
		ready: rp,
		cfg:   cfg,
		log:   log,
	}

	a.mux.HandleFunc("/healthz", a.healthz)
	a.mux.HandleFunc("/readyz", a.readyz)
	a.mux.HandleFunc("/v1/info", a.info)
	a.mux.HandleFunc("/openapi.yaml", a.openAPISpec)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/api/v1/auth/register", a.handleRegister)
	a.mux.HandleFunc("/api/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/api/v1/users/me", a.handleCurrentUser)
	a.mux.HandleFunc("/api/v1/users/", a.handleUserResource)
	a.mux.HandleFunc("/api/v1/items/", a.handleItems)

	a.mux.HandleFunc("/", a.root)

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = SecurityHeaders(h)
	h = CORS(h, a.cfg.AllowedOrigins)
	h = MaxBodyBytes(h, a.cfg.MaxBodyBytes)
	h = RateLimit(h, a.cfg.RateLimitBurst, a.cfg.RateLimitRPS)
	h = Logging(h, a.log)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- Service handlers ---

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "taskora-api",
		"version": a.cfg.Version,
	})
}

func (a *API) readyz(w http.ResponseWriter, r *http.Request) {
	if err := a.ready.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "taskora-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.cfg.Version,
	})
}

func (a *API) openAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(spec.OpenAPI)
}

func (a *API) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task Management API",
		"version": a.cfg.Version,
		"openapi": "/openapi.yaml",
		"health":  "/healthz",
	})
}
