// Package api serves slip extraction over HTTP.
package api

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/aqlanhadi/slipscan/category"
	"github.com/aqlanhadi/slipscan/extractor"
	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Config holds the API server configuration
type Config struct {
	Port      string
	BodyLimit int
	Logger    zerolog.Logger
}

// DefaultConfig returns the default API configuration
func DefaultConfig() Config {
	return Config{
		Port:      ":8080",
		BodyLimit: 32 << 20,
		Logger:    zerolog.Nop(),
	}
}

// Server represents the HTTP API server
type Server struct {
	config   Config
	app      *fiber.App
	registry *extractor.Registry
}

// New creates a new API server. A nil registry uses the built-in dialects.
func New(cfg Config, registry *extractor.Registry) *Server {
	if registry == nil {
		registry = extractor.DefaultRegistry()
	}
	s := &Server{
		config:   cfg,
		registry: registry,
		app: fiber.New(fiber.Config{
			AppName:               "slipscan",
			BodyLimit:             cfg.BodyLimit,
			DisableStartupMessage: true,
			ErrorHandler:          errorHandler,
		}),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Use(s.logRequests)
	s.app.Get("/health", s.handleHealth)
	s.app.Post("/extract", s.handleExtract)
	s.app.Post("/extract/file", s.handleExtractFile)
	s.app.Post("/category", s.handleCategory)
}

// App returns the fiber app so callers can test or mount it.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the HTTP server (blocking)
func (s *Server) Start() error {
	s.config.Logger.Info().Str("port", s.config.Port).Msg("starting server")
	return s.app.Listen(s.config.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	c.SetUserContext(logger.WithContext(c.UserContext(), s.config.Logger))
	err := c.Next()
	s.config.Logger.Debug().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Msg("request")
	return err
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

type extractRequest struct {
	Source string   `json:"source"`
	Lines  []string `json:"lines"`
	Text   string   `json:"text"`
}

// handleExtract extracts one slip from OCR lines or text.
func (s *Server) handleExtract(c *fiber.Ctx) error {
	var req extractRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body: "+err.Error())
	}

	lines := req.Lines
	if len(lines) == 0 {
		lines = common.SplitLines(req.Text)
	}
	if strings.TrimSpace(strings.Join(lines, "")) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "lines or text is required")
	}

	return c.JSON(s.registry.Analyze(common.Document{Source: req.Source, Lines: lines}))
}

// handleExtractFile extracts every slip in an uploaded file. With
// text_only=true a PDF is returned as raw text rows.
func (s *Server) handleExtractFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not get uploaded file: "+err.Error())
	}
	if !extractor.SupportedExtension(fh.Filename) {
		return fiber.NewError(fiber.StatusUnsupportedMediaType, "unsupported file type: "+filepath.Ext(fh.Filename))
	}

	file, err := fh.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	if c.Query("text_only") == "true" && strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		rows, err := common.ExtractRowsFromPDFReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "could not extract text: "+err.Error())
		}
		return c.JSON(fiber.Map{"filename": fh.Filename, "text": strings.Join(rows, "\n")})
	}

	results, err := s.registry.ProcessReader(c.UserContext(), file, fh.Filename)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(results)
}

type categoryRequest struct {
	Receiver string `json:"receiver"`
}

func (s *Server) handleCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body: "+err.Error())
	}
	return c.JSON(fiber.Map{"category": category.Suggest(req.Receiver)})
}
