package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rpupo63/research-portal-backend/config"
	"github.com/rpupo63/research-portal-backend/database"
	"github.com/rpupo63/research-portal-backend/services"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

type ServerOption func(*router)

// WithProjectService replaces the default service built from the database alone.
func WithProjectService(service *services.ProjectService) ServerOption {
	return func(r *router) {
		r.projectService = service
	}
}

func WithMediaSigner(signer *services.MediaSigner) ServerOption {
	return func(r *router) {
		if signer != nil {
			r.signer = signer
		}
	}
}

// WithHealthCheck adds a named dependency to /healthz.
func WithHealthCheck(name string, check func(ctx context.Context) error) ServerOption {
	return func(r *router) {
		if r.checks == nil {
			r.checks = make(map[string]healthCheck)
		}
		r.checks[name] = check
	}
}

func NewServer(database database.Database, c map[string]string, opts ...ServerOption) (Server, error) {
	// Ensure correct port is set
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	opts = append([]ServerOption{withConfig(c), withStartupTime(startupTime)}, opts...)
	router, err := newRouter(database, opts...)
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180*time.Second),  // Timeout for reading the entire request
		WriteTimeout: config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180*time.Second), // Timeout for writing the response
		IdleTimeout:  config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180*time.Second),  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config         map[string]string
	startupTime    time.Time
	projectService *services.ProjectService
	signer         uploadPresigner
	checks         map[string]healthCheck
}

func withConfig(c map[string]string) ServerOption {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) ServerOption {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(database database.Database, opts ...ServerOption) (*chi.Mux, error) {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	secret := config.GetString(router.config, "JWT_SECRET", "")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if router.projectService == nil {
		router.projectService = services.NewProjectService(database)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	// Apply CORS middleware
	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize all handlers
	handlers := initializeHandlers(database, router)

	// Initialize auth middleware
	authMiddleware := newAuthMiddleware(secret, database.UserRepo())

	setupRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errChannel <- err
	}
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
