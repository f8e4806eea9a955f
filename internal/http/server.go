package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"asceta/portal/internal/access"
	"asceta/portal/internal/config"
	"asceta/portal/internal/identity"
	"asceta/portal/internal/repository"
)

const healthTimeout = 2 * time.Second

type Server struct {
	cfg      config.Config
	store    repository.Repository
	identity *identity.Service
	validate *validator.Validate
	metrics  *metrics
	now      func() time.Time
}

func NewServer(cfg config.Config, store repository.Repository, accounts *identity.Service) *Server {
	validate := identity.NewValidator()
	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return &Server{
		cfg:      cfg,
		store:    store,
		identity: accounts,
		validate: validate,
		metrics:  newMetrics(),
		now:      time.Now,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(recoverer)
	r.Use(s.metrics.middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(s.authMiddleware).Get("/profile", s.handleGetProfile)
		r.With(s.authMiddleware).Put("/profile", s.handleUpdateProfile)
		r.With(s.authMiddleware).Post("/logout", s.handleLogout)
	})
	r.Post("/admission/apply", s.handleApply)

	r.Route("/news", func(r chi.Router) {
		r.With(s.optionalAuth).Get("/", s.handleListNews)
		r.With(s.optionalAuth).Get("/{id}", s.handleGetNews)
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware, s.requireRoles(access.Staff...))
			r.Post("/", s.handleCreateNews)
			r.Put("/{id}", s.handleUpdateNews)
			r.Delete("/{id}", s.handleDeleteNews)
		})
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", s.handleListEvents)
		r.Get("/{id}", s.handleGetEvent)
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware, s.requireRoles(access.Staff...))
			r.Post("/", s.handleCreateEvent)
			r.Put("/{id}", s.handleUpdateEvent)
			r.Delete("/{id}", s.handleDeleteEvent)
		})
	})

	r.Route("/pages", func(r chi.Router) {
		r.Get("/", s.handleListPages)
		r.Get("/{slug}", s.handleGetPage)
		r.With(s.authMiddleware, s.requireRoles(access.Staff...)).Post("/", s.handleCreatePage)
		r.With(s.authMiddleware, s.requireRoles(access.Staff...)).Put("/{id}", s.handleUpdatePage)
		r.With(s.authMiddleware, s.requireRoles(access.AdminOnly...)).Delete("/{id}", s.handleDeletePage)
	})

	r.With(s.authMiddleware, s.requireRoles(access.AdminOnly...)).Post("/users/{id}/deactivate", s.handleDeactivateUser)

	r.Route("/accadd/auth", func(r chi.Router) {
		r.Post("/register", s.handleAccaddRegister)
		r.Get("/status/{email}", s.handleAccaddStatus)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route_not_found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "ok"})
}
