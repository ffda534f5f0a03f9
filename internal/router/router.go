package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/socialapi-dev/socialapi/internal/middleware"
	"github.com/socialapi-dev/socialapi/internal/middleware/metrics"
	"github.com/socialapi-dev/socialapi/internal/middleware/ratelimiter"
	"github.com/socialapi-dev/socialapi/internal/setup"
)

// New builds the chi router with all routes and middleware.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	h := deps.Handler

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Registration sends mail, so it gets the tightest limits.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ratelimiter.New(1.0/10, 1, time.Hour), middleware.GetEmailFromBody)) // 1 per 10s per email
		r.Use(middleware.RateLimit(ratelimiter.New(1.0/10, 2, time.Hour), middleware.GetIP))
		r.Post("/register", h.Register)
	})

	// Login is brute-forceable, limit per account and per IP.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ratelimiter.New(5.0/600, 5, time.Hour), middleware.GetUsernameFromForm)) // 5 attempts per 10 min per account
		r.Use(middleware.RateLimit(ratelimiter.New(1, 5, time.Hour), middleware.GetIP))
		r.Post("/token", h.Token)
	})

	r.Get("/confirm/{token}", h.Confirm)
	r.Get("/post", h.Posts)
	r.Get("/post/{post_id}", h.Post)
	r.Get("/post/{post_id}/comments", h.Comments)

	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMw.RequireAuth())
		r.Post("/post", h.CreatePost)
		r.Post("/comment", h.CreateComment)
		r.Post("/like", h.LikePost)
		r.Post("/upload", h.Upload)
	})

	return r
}
