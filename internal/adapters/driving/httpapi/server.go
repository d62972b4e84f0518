// Package httpapi exposes the chat relay and health endpoints over HTTP.
// The board front end talks to this API; everything else (indexing,
// retrieval, capture) runs behind it.
package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/boardsense/internal/core/ports/driving"
	"github.com/custodia-labs/boardsense/internal/logger"
)

// Server wraps the fiber application and its handlers.
type Server struct {
	app  *fiber.App
	addr string
}

// New creates a server with routes registered. addr is the listen address
// (e.g. ":8080").
func New(addr string, chat driving.ChatService) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	chatHandler := NewChatHandler(chat)
	checkHandler := NewCheckHandler()

	check := app.Group("/check")
	check.Get("/healthy", checkHandler.HandleHealthy)

	api := app.Group("/api")
	api.Post("/chat", chatHandler.HandleChat)

	return &Server{app: app, addr: addr}
}

// Listen blocks serving requests until Shutdown is called.
func (s *Server) Listen() error {
	logger.Info("HTTP API listening on %s", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying fiber application, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// CheckHandler serves health probes.
type CheckHandler struct{}

// NewCheckHandler creates a health check handler.
func NewCheckHandler() *CheckHandler {
	return &CheckHandler{}
}

// HandleHealthy reports liveness.
func (h *CheckHandler) HandleHealthy(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"result": "ok"})
}
