// Package server provides the HTTP server and routing for finSight.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/database"
	analysishandlers "github.com/finsight/finsight/internal/modules/analysis/handlers"
	assetshandlers "github.com/finsight/finsight/internal/modules/assets/handlers"
	"github.com/finsight/finsight/internal/modules/auth"
	authhandlers "github.com/finsight/finsight/internal/modules/auth/handlers"
	chartshandlers "github.com/finsight/finsight/internal/modules/charts/handlers"
	macrohandlers "github.com/finsight/finsight/internal/modules/macro/handlers"
	newshandlers "github.com/finsight/finsight/internal/modules/news/handlers"
	notebookhandlers "github.com/finsight/finsight/internal/modules/notebook/handlers"
	portfoliohandlers "github.com/finsight/finsight/internal/modules/portfolio/handlers"
	summaryhandlers "github.com/finsight/finsight/internal/modules/summary/handlers"
	userconfighandlers "github.com/finsight/finsight/internal/modules/userconfig/handlers"
)

// Handlers collects the per-module HTTP handlers mounted by the server.
type Handlers struct {
	Auth       *authhandlers.Handler
	Assets     *assetshandlers.Handler
	Analysis   *analysishandlers.Handler
	Portfolio  *portfoliohandlers.Handler
	Macro      *macrohandlers.Handler
	News       *newshandlers.Handler
	UserConfig *userconfighandlers.Handler
	Notebook   *notebookhandlers.Handler
	Summary    *summaryhandlers.Handler
	Charts     *chartshandlers.Handler
}

// Config holds server configuration.
type Config struct {
	Log        zerolog.Logger
	Config     *config.Config
	FinsightDB *database.DB
	CacheDB    *database.DB
	Auth       *auth.Service
	Handlers   Handlers
}

// Server is the HTTP server.
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	finsightDB     *database.DB
	cacheDB        *database.DB
	auth           *auth.Service
	handlers       Handlers
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		log:        cfg.Log.With().Str("component", "server").Logger(),
		cfg:        cfg.Config,
		finsightDB: cfg.FinsightDB,
		cacheDB:    cfg.CacheDB,
		auth:       cfg.Auth,
		handlers:   cfg.Handlers,
		systemHandlers: NewSystemHandlers(cfg.Log, cfg.Config.DataDir, map[string]*database.DB{
			"finsight": cfg.FinsightDB,
			"cache":    cfg.CacheDB,
		}),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	allowedOrigins := []string{"*"}
	if s.cfg.FrontendOrigin != "" {
		allowedOrigins = []string{s.cfg.FrontendOrigin}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !s.cfg.DevMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Public endpoints
		s.handlers.Auth.RegisterPublicRoutes(r)

		// Everything else requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(s.auth.Middleware)

			s.handlers.Auth.RegisterProtectedRoutes(r)
			s.handlers.Assets.RegisterRoutes(r)
			s.handlers.Analysis.RegisterRoutes(r)
			s.handlers.Portfolio.RegisterRoutes(r)
			s.handlers.Macro.RegisterRoutes(r)
			s.handlers.News.RegisterRoutes(r)
			s.handlers.UserConfig.RegisterRoutes(r)
			s.handlers.Notebook.RegisterRoutes(r)
			s.handlers.Summary.RegisterRoutes(r)
			s.handlers.Charts.RegisterRoutes(r)

			r.Route("/system", func(r chi.Router) {
				r.Get("/status", s.systemHandlers.HandleSystemStatus)
				r.Get("/database/stats", s.systemHandlers.HandleDatabaseStats)
			})
		})
	})
}

// handleHealth reports liveness and the state of both databases.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	databases := map[string]string{}
	for name, db := range map[string]*database.DB{"finsight": s.finsightDB, "cache": s.cacheDB} {
		if err := db.HealthCheck(ctx); err != nil {
			databases[name] = err.Error()
			status = "degraded"
		} else {
			databases[name] = "ok"
		}
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"databases": databases,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs each request with method, path, status and duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
