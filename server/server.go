// Package server exposes the assistant over HTTP: a chat endpoint, a
// download endpoint for exported documents, and a health check.
package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/arlolabs/arlo/agent"
	contractx "github.com/arlolabs/arlo/agent/contract"
	"github.com/arlolabs/arlo/export"
)

// Config holds the HTTP listener settings.
type Config struct {
	ListenAddr      string        `envconfig:"LISTEN_ADDR" split_words:"true" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"5s"`
}

// Server wires the chat assistant and the export directory into a fiber app.
type Server struct {
	app       *fiber.App
	assistant *agent.Assistant
	exporter  *export.Manager
	cfg       Config
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Reply string   `json:"reply"`
	Files []string `json:"files,omitempty"`
}

func New(assistant *agent.Assistant, exporter *export.Manager, cfg Config) (*Server, error) {
	if assistant == nil {
		return nil, errors.New("assistant is required")
	}
	if exporter == nil {
		return nil, errors.New("exporter is required")
	}

	s := &Server{
		app:       fiber.New(),
		assistant: assistant,
		exporter:  exporter,
		cfg:       cfg,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	s.app.Post("/chat", s.handleChat)
	s.app.Get("/files/:name", s.handleDownload)
}

func (s *Server) handleChat(c fiber.Ctx) error {
	var req chatRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	reply, err := s.assistant.HandleMessage(c.Context(), req.SessionID, req.Message)
	switch {
	case err == nil:
	case errors.Is(err, agent.ErrInvalidMessage), errors.Is(err, agent.ErrInvalidSession):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, contractx.ErrModelInvoke):
		log.Error().Err(err).Str("session", req.SessionID).Msg("model call failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "the model is unavailable, try again shortly",
		})
	default:
		log.Error().Err(err).Str("session", req.SessionID).Msg("chat turn failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "chat turn failed",
		})
	}

	resp := chatResponse{Reply: reply.Text}
	for _, file := range reply.Files {
		resp.Files = append(resp.Files, "/files/"+filepath.Base(file))
	}
	return c.JSON(resp)
}

// handleDownload serves a previously exported document. Only bare file
// names are accepted so the export directory cannot be escaped.
func (s *Server) handleDownload(c fiber.Ctx) error {
	name := c.Params("name")
	if name == "" || name != filepath.Base(name) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid file name",
		})
	}

	path := filepath.Join(s.exporter.Dir(), name)
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "file not found",
		})
	}
	return c.Download(path, name)
}

// Listen blocks until the listener stops.
func (s *Server) Listen() error {
	log.Info().Str("address", s.cfg.ListenAddr).Msg("starting HTTP server")
	if err := s.app.Listen(s.cfg.ListenAddr); err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddr, err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(s.cfg.ShutdownTimeout)
}
