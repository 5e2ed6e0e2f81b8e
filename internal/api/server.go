// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bazaari/bazaari/internal/admin"
	"github.com/bazaari/bazaari/internal/marketplace/ad"
	"github.com/bazaari/bazaari/internal/messaging"
	"github.com/bazaari/bazaari/internal/platform/config"
	"github.com/bazaari/bazaari/internal/platform/constants"
	"github.com/bazaari/bazaari/internal/platform/metrics"
	"github.com/bazaari/bazaari/internal/platform/middleware"
	"github.com/bazaari/bazaari/internal/platform/sec"
	"github.com/bazaari/bazaari/internal/users/account"
	"github.com/bazaari/bazaari/internal/users/auth"
	"github.com/bazaari/bazaari/internal/users/session"
	"github.com/bazaari/bazaari/internal/users/verification"
	"github.com/bazaari/bazaari/internal/wallet"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler.
	Readiness http.HandlerFunc

	// Auth runs the one-time code sign-in and registration wizard.
	Auth *auth.Handler

	// Verification runs the Premium upgrade wizard.
	Verification *verification.Handler

	// Wallet runs deposits and serves transaction history.
	Wallet *wallet.Handler

	// Ads serves the feed, publishing and the boost wizard.
	Ads *ad.Handler

	// Account serves /me and public profiles.
	Account *account.Handler

	// Messages serves direct messages.
	Messages *messaging.Handler

	// Admin serves the Owner dashboard.
	Admin *admin.Handler
}

// Identity groups the collaborators that turn a bearer token into a principal.
type Identity struct {
	Verifier middleware.TokenVerifier
	Binder   middleware.PrincipalBinder
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. ctx bounds the lifetime of background middleware state.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, identity Identity, registry *metrics.Registry, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(registry.Instrument)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.Authenticate(identity.Verifier))
	r.Use(middleware.BindPrincipal(identity.Binder))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", registry.Handler())

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/ads", h.Ads.Routes())

		api.Group(func(private chi.Router) {
			private.Use(middleware.RequireAuth)
			private.Mount("/upgrade", h.Verification.Routes())
			private.Mount("/wallet", h.Wallet.Routes())
			private.Mount("/boosts", h.Ads.BoostRoutes())
			private.Mount("/messages", h.Messages.Routes())
		})

		api.Group(func(owner chi.Router) {
			owner.Use(middleware.RequireRole(sec.RoleOwner, session.RoleOf))
			owner.Mount("/admin", h.Admin.Routes())
		})

		api.Mount("/", h.Account.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the root router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
