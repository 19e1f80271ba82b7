// Package server exposes the filter pipeline of one session over HTTP.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"car-dashboard/services"
	"car-dashboard/storage"
	"car-dashboard/utils"
)

// Options configures a Server.
type Options struct {
	ExportPrefix string
	// Now is overridable for tests; it dates export file names.
	Now func() time.Time
}

// Server wraps a Fiber app bound to a single read-only session.
type Server struct {
	app       *fiber.App
	session   *services.Session
	logger    *utils.Logger
	validator *validator.Validate
	prefix    string
	now       func() time.Time
}

// New builds the app and registers every route.
func New(session *services.Session, logger *utils.Logger, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportPrefix == "" {
		opts.ExportPrefix = storage.DefaultPrefix
	}

	s := &Server{
		session:   session,
		logger:    logger,
		validator: validator.New(),
		prefix:    opts.ExportPrefix,
		now:       opts.Now,
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "Car Dashboard API",
		ErrorHandler: s.errorHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(metrics())
	s.app.Use(s.requestLogger())

	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api/v1")
	api.Get("/health", s.health)
	api.Get("/facets", s.facets)
	api.Get("/cars", s.cars)
	api.Get("/summary", s.summary)
	api.Get("/export", s.export)
}

// App exposes the underlying Fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on addr.
func (s *Server) Listen(addr string) error {
	s.logger.Info("[server] Listening on %s (session %s)", addr, s.session.ID)
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) requestLogger() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		s.logger.Debug("[server] %s %s → %d in %v (request %s)",
			c.Method(), c.OriginalURL(), statusOf(c, err), time.Since(start), requestid.FromContext(c))
		return err
	}
}

func (s *Server) errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("[server] %s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(errorResponse{Error: err.Error()})
}
