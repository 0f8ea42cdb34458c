// Package server exposes the HTTP surface: auth endpoints, community and
// event CRUD, and health probes.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/Mik3y-F/nitty/internal/auth"
	"github.com/Mik3y-F/nitty/internal/config"
	"github.com/Mik3y-F/nitty/internal/store"
)

const apiPrefix = "/api/v1"

// Server wires the fiber app against the auth core and the stores.
type Server struct {
	app    *fiber.App
	cfg    *config.Config
	logger *logrus.Logger
	auther *auth.Authenticator
	repo   store.Manager
}

// New builds the app with its routes registered and the shared error
// handler installed.
func New(cfg *config.Config, logger *logrus.Logger, repo store.Manager, auther *auth.Authenticator) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		auther: auther,
		repo:   repo,
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "nitty",
		ErrorHandler: s.errorHandler,
	})

	s.registerRoutes()

	return s
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.HealthCheck)
	s.app.Get("/health/detailed", s.DetailedHealthCheck)

	api := s.app.Group(apiPrefix)

	api.Post("/login/access-token", s.LoginAccessToken)
	api.Post("/signup", s.Signup)

	protected := s.RequireUser()

	com := api.Group("/communities")
	com.Post("/", protected, s.CreateCommunity)
	com.Get("/", s.ListCommunities)
	com.Get("/search", s.SearchCommunities)
	com.Get("/my", protected, s.MyCommunities)
	com.Get("/:id", s.GetCommunity)
	com.Put("/:id", protected, s.UpdateCommunity)
	com.Delete("/:id", protected, s.DeleteCommunity)
	com.Delete("/:id/permanent", protected, s.PermanentlyDeleteCommunity)

	evt := api.Group("/events")
	evt.Post("/", protected, s.CreateEvent)
	evt.Get("/", s.ListEvents)
	evt.Get("/search", s.SearchEvents)
	evt.Get("/my", protected, s.MyEvents)
	evt.Get("/upcoming", s.UpcomingEvents)
	evt.Get("/date-range", s.EventsByDateRange)
	evt.Get("/community/:id", s.EventsByCommunity)
	evt.Get("/:id", s.GetEvent)
	evt.Put("/:id", protected, s.UpdateEvent)
	evt.Delete("/:id", protected, s.DeleteEvent)
	evt.Delete("/:id/permanent", protected, s.PermanentlyDeleteEvent)
}
