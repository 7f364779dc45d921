package main

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/PaulBabatuyi/authapi/internal/accounts"
	"github.com/PaulBabatuyi/authapi/internal/config"
	"github.com/PaulBabatuyi/authapi/internal/content"
	"github.com/PaulBabatuyi/authapi/internal/db"
	"github.com/PaulBabatuyi/authapi/internal/middleware"
	"github.com/PaulBabatuyi/authapi/internal/status"
)

// Server holds the services behind the HTTP routes.
type Server struct {
	cfg      *config.Config
	accounts *accounts.Service
	content  *content.Lookup
	status   *status.Reporter
	state    db.StateSource
	limiter  *middleware.LimiterStore
	log      zerolog.Logger
	started  time.Time
}

// newServer returns a ready-to-use Server wired with services.
func newServer(cfg *config.Config, acc *accounts.Service, lookup *content.Lookup, state db.StateSource, limiter *middleware.LimiterStore, log zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		accounts: acc,
		content:  lookup,
		status:   status.NewReporter(state),
		state:    state,
		limiter:  limiter,
		log:      log,
		started:  time.Now(),
	}
}

// routes builds the fiber app with middleware and all endpoints.
func (s *Server) routes() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "authapi",
		ErrorHandler: s.errorHandler,
		BodyLimit:    1 * 1024 * 1024,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	app.Use(recoverer.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(s.log))
	app.Use(middleware.Metrics())
	app.Use(cors.New(s.corsConfig()))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/video", s.latestVideo)

	// writes are gated per route so unmatched paths still reach apiNotFound
	gate := middleware.RequireConnected(s.state)

	api := app.Group("/api")
	api.Get("/health", s.health)
	api.Get("/test-db", s.testDB)
	api.Post("/register", gate, middleware.RateLimit(s.limiter), s.register)
	api.Post("/login", gate, middleware.RateLimit(s.limiter), s.login)
	if s.cfg.DiagnosticsEnabled() {
		api.Get("/users", s.listUsers)
		api.Delete("/users/clear", gate, s.clearUsers)
	}

	// registered last so it only sees unmatched /api requests
	api.Use(s.apiNotFound)

	return app
}

func (s *Server) corsConfig() cors.Config {
	if s.cfg.CORSMode == config.CORSStrict {
		return cors.Config{
			AllowOrigins:     s.cfg.CORSOrigins,
			AllowMethods:     []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodDelete, fiber.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           600,
		}
	}
	return cors.Config{AllowOrigins: []string{"*"}}
}

// availableEndpoints lists the routes reported by the API 404 response.
func (s *Server) availableEndpoints() []string {
	endpoints := []string{
		"GET /api/health",
		"GET /api/test-db",
		"POST /api/register",
		"POST /api/login",
	}
	if s.cfg.DiagnosticsEnabled() {
		endpoints = append(endpoints, "GET /api/users", "DELETE /api/users/clear")
	}
	return endpoints
}
