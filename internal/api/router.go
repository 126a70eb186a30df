package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/memocast/internal/api/handlers"
	"github.com/nikhilbhutani/memocast/internal/api/middleware"
	"github.com/nikhilbhutani/memocast/internal/config"
	"github.com/nikhilbhutani/memocast/internal/memo"
	"github.com/nikhilbhutani/memocast/internal/metrics"
)

type Router struct {
	mux    *chi.Mux
	cfg    *config.Config
	svc    *memo.Service
	checks map[string]handlers.Check
	rl     *middleware.RateLimiter
}

// NewRouter wires the HTTP surface around svc. checks feed /readyz and may
// be nil.
func NewRouter(cfg *config.Config, svc *memo.Service, checks map[string]handlers.Check) *Router {
	return &Router{
		mux:    chi.NewRouter(),
		cfg:    cfg,
		svc:    svc,
		checks: checks,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.GetHead)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.CORSOrigins))

	if rt.cfg.RateLimit.RPS > 0 {
		rt.rl = middleware.NewRateLimiter(rt.cfg.RateLimit.RPS, rt.cfg.RateLimit.Burst)
		r.Use(rt.rl.Limit)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not Found", "path": r.URL.Path})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method Not Allowed", "path": r.URL.Path})
	})

	health := handlers.NewHealthHandler(rt.svc.Mode(), rt.checks)
	r.Get("/health", health.Health)
	r.Get("/readyz", health.Readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	voiceH := handlers.NewVoiceHandler(rt.svc)
	r.Get("/voices", voiceH.List)

	memoH := handlers.NewMemoHandler(rt.svc)
	r.Post("/memo", memoH.Create)
	r.Get("/memo/{id}", memoH.Get)
	r.Delete("/memo/{id}", memoH.Delete)
	r.Get("/memos", memoH.List)

	audioH := handlers.NewAudioHandler(rt.svc)
	r.Get("/audio/{filename}", audioH.Serve)

	return r
}

// Close releases background resources held by middleware.
func (rt *Router) Close() {
	if rt.rl != nil {
		rt.rl.Stop()
	}
}
