// Package container provides dependency injection for the trs-records application.
// It centralizes the creation and wiring of all application dependencies.
package container

import (
	"fmt"

	"fjacquet/trs-records/internal/api"
	"fjacquet/trs-records/internal/batch"
	"fjacquet/trs-records/internal/common"
	"fjacquet/trs-records/internal/config"
	"fjacquet/trs-records/internal/logging"
	"fjacquet/trs-records/internal/pdfparser"
	"fjacquet/trs-records/internal/recordparser"
	"fjacquet/trs-records/internal/report"

	"github.com/gofiber/fiber/v2"
)

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	parser    *pdfparser.Parser
	generator *report.Generator
}

// NewContainer creates and wires all application dependencies from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg)))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	if delim := []rune(cfg.CSV.Delimiter); len(delim) == 1 {
		common.SetDelimiter(delim[0])
	}
	common.SetIncludeHeaders(cfg.CSV.IncludeHeaders)

	extractor, err := pdfparser.NewExtractor(cfg.Parsers.PDF.Extractor)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	var opts []recordparser.Option
	if cfg.Parsers.Records.DropIncompleteTail {
		opts = append(opts, recordparser.WithDropIncompleteTail())
	}

	logger.Debug("Container initialized",
		logging.Field{Key: logging.FieldExtractor, Value: cfg.Parsers.PDF.Extractor},
		logging.Field{Key: "drop_incomplete_tail", Value: cfg.Parsers.Records.DropIncompleteTail})

	return &Container{
		logger:    logger,
		config:    cfg,
		parser:    pdfparser.NewParser(logger, extractor, opts...),
		generator: report.NewGenerator(logger),
	}, nil
}

// GetParser returns the statement parser.
func (c *Container) GetParser() *pdfparser.Parser {
	return c.parser
}

// GetReportGenerator returns the summary report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.generator
}

// NewBatchProcessor returns a batch processor using workers goroutines, or
// batch.workers from the configuration when workers is not positive.
func (c *Container) NewBatchProcessor(workers int, validate bool) *batch.Processor {
	if workers < 1 {
		workers = c.config.Batch.Workers
	}
	return batch.NewProcessor(c.parser, c.logger, workers, validate)
}

// NewAPIApp returns the HTTP application serving the parser.
func (c *Container) NewAPIApp() *fiber.App {
	return api.NewApp(api.NewHandler(c.parser, c.logger), c.config.Server.BodyLimitMB)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}
