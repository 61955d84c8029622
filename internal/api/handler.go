// Package api exposes record extraction over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"fjacquet/trs-records/internal/logging"
	"fjacquet/trs-records/internal/models"
	"fjacquet/trs-records/internal/parsererror"
	"fjacquet/trs-records/internal/recordparser"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const shutdownTimeout = 5 * time.Second

// RecordParser is what the handlers need from the statement parser.
type RecordParser interface {
	Parse(r io.Reader) ([]models.Record, error)
	ParseText(raw string) ([]models.Record, error)
}

// ExtractResponse is the JSON response from the /api/extract endpoint.
type ExtractResponse struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error,omitempty"`
	Count   int                    `json:"count"`
	Summary *models.Summary        `json:"summary,omitempty"`
	Records []models.Record        `json:"records"`
	Details []models.RecordDetails `json:"details"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	parser RecordParser
	logger logging.Logger
}

// NewHandler creates a Handler.
func NewHandler(parser RecordParser, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Handler{parser: parser, logger: logger}
}

// NewApp builds the fiber application with all routes registered.
func NewApp(h *Handler, bodyLimitMB int) *fiber.App {
	if bodyLimitMB < 1 {
		bodyLimitMB = 32
	}
	app := fiber.New(fiber.Config{
		AppName:               "trs-records",
		BodyLimit:             bodyLimitMB << 20,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return writeError(c, code, err.Error())
		},
	})
	app.Use(recover.New())
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/extract", h.HandleExtract)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, app *fiber.App, addr string, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()
	logger.Info("HTTP server listening", logging.Field{Key: logging.FieldAddr, Value: addr})

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	}
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"engine": "fiber",
	})
}

// HandleExtract parses either an uploaded statement (form field "file") or
// already extracted text (form field "text") and returns the records.
func (h *Handler) HandleExtract(c *fiber.Ctx) error {
	var (
		records []models.Record
		err     error
	)

	if text := c.FormValue("text"); text != "" {
		records, err = h.parser.ParseText(text)
	} else {
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			return writeError(c, fiber.StatusBadRequest, "No input. Use form field 'file' or 'text'.")
		}
		f, oerr := fh.Open()
		if oerr != nil {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to read upload: %v", oerr))
		}
		defer f.Close()

		h.logger.Info("Extracting uploaded statement",
			logging.Field{Key: logging.FieldFile, Value: fh.Filename})
		records, err = h.parser.Parse(f)
	}

	if err != nil {
		h.logger.WithError(err).Warn("Extraction failed")
		return writeError(c, statusFor(err), err.Error())
	}

	summary := recordparser.Tally(records)
	return c.JSON(ExtractResponse{
		Success: true,
		Count:   len(records),
		Summary: &summary,
		Records: records,
		Details: recordparser.DescribeAll(records),
	})
}

func statusFor(err error) int {
	var parseErr *parsererror.ParseError
	switch {
	case errors.Is(err, parsererror.ErrIncompleteRecord), errors.As(err, &parseErr):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ExtractResponse{
		Success: false,
		Error:   msg,
		Records: []models.Record{},
		Details: []models.RecordDetails{},
	})
}
