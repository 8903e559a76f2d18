package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// Config holds HTTP server configuration.
type Config struct {
	// APIKey protects every endpoint except /health when set.
	APIKey string

	// BodyLimit caps upload sizes in bytes (default: 32 MiB).
	BodyLimit int
}

// Services bundles the driving ports the server exposes.
type Services struct {
	Chat      driving.ChatService
	Ingestion driving.IngestionService
	Search    driving.SearchService
	Documents driving.DocumentService
	Feedback  driving.FeedbackService
}

// Server is the HTTP front of the application.
type Server struct {
	app      *fiber.App
	services Services
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(cfg Config, services Services) *Server {
	if cfg.BodyLimit == 0 {
		cfg.BodyLimit = 32 * 1024 * 1024
	}

	app := fiber.New(fiber.Config{
		AppName:               "docuchat",
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	s := &Server{
		app:      app,
		services: services,
	}

	app.Get("/health", s.handleHealth)

	api := app.Group("")
	if cfg.APIKey != "" {
		api.Use(bearerAuth(cfg.APIKey))
	}

	api.Post("/ingestion", s.handleIngest)
	api.Post("/chat", s.handleChat)
	api.Get("/chat/:chat_id", s.handleHistory)
	api.Post("/search", s.handleSearch)
	api.Get("/documents", s.handleListDocuments)
	api.Post("/documents/:file_id/archive", s.handleArchive)
	api.Post("/feedback", s.handleSubmitFeedback)
	api.Get("/feedback/user/:user_name", s.handleFeedbackByUser)
	api.Get("/feedback/:chat_id", s.handleFeedbackByChat)

	return s
}

// Listen serves HTTP on the given address until Shutdown.
func (s *Server) Listen(addr string) error {
	logger.Info("HTTP API listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// bearerAuth rejects requests without the configured bearer token.
func bearerAuth(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token != apiKey {
			return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: "invalid or missing API key"})
		}
		return c.Next()
	}
}

// errorHandler maps errors that escape handlers to JSON responses.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(errorResponse{Error: fiberErr.Message})
	}
	return c.Status(statusFor(err)).JSON(errorResponse{Error: err.Error()})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrEmptyContent):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrEmbedding),
		errors.Is(err, domain.ErrLLMUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// fail logs a handler error and renders its JSON response.
func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		logger.Warn("%s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(errorResponse{Error: err.Error()})
}

// badRequest renders a 400 with a formatted message.
func badRequest(c *fiber.Ctx, format string, args ...any) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: fmt.Sprintf(format, args...)})
}
