// Package batch converts every statement in a directory with a bounded pool of workers.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/trs-records/internal/fileutils"
	"fjacquet/trs-records/internal/logging"
	"fjacquet/trs-records/internal/models"

	"golang.org/x/sync/errgroup"
)

// SupportedExtensions are the input file extensions picked up from a directory.
var SupportedExtensions = []string{".pdf", ".txt"}

// Converter converts one statement file into a CSV file.
type Converter interface {
	ValidateFormat(file string) (bool, error)
	ConvertToCSV(inputFile, outputFile string) (models.Summary, error)
}

// FileResult is the outcome for a single input file.
type FileResult struct {
	InputFile  string
	OutputFile string
	Summary    models.Summary
	Err        error
}

// Result is the outcome of a batch run. Files keeps the sorted input order.
type Result struct {
	Files   []FileResult
	Summary models.Summary
	Failed  int
}

// Processor runs a Converter over a directory.
type Processor struct {
	converter Converter
	logger    logging.Logger
	workers   int
	validate  bool
}

// NewProcessor creates a Processor using at most workers concurrent conversions.
func NewProcessor(converter Converter, logger logging.Logger, workers int, validate bool) *Processor {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Processor{
		converter: converter,
		logger:    logger,
		workers:   workers,
		validate:  validate,
	}
}

// ProcessDirectory converts every supported file directly inside inputDir into
// outputDir/<name>.<ext>.csv. A failing file is recorded in its FileResult and does
// not stop the others; only a cancelled context aborts the run.
func (p *Processor) ProcessDirectory(ctx context.Context, inputDir, outputDir string) (Result, error) {
	files, err := fileutils.ListFilesWithExtensions(inputDir, SupportedExtensions...)
	if err != nil {
		return Result{}, err
	}
	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	p.logger.Info("Starting batch conversion",
		logging.Field{Key: logging.FieldOperation, Value: "batch"},
		logging.Field{Key: "input_dir", Value: inputDir},
		logging.Field{Key: "output_dir", Value: outputDir},
		logging.Field{Key: logging.FieldCount, Value: len(files)},
		logging.Field{Key: "workers", Value: p.workers})

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := filepath.Join(outputDir, fileutils.AppendExtension(file, ".csv"))
			results[i] = p.processFile(file, out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Files: results, Summary: models.NewSummary()}
	for _, fr := range results {
		if fr.Err != nil {
			res.Failed++
			continue
		}
		res.Summary.Merge(fr.Summary)
	}

	p.logger.Info("Batch conversion completed",
		logging.Field{Key: logging.FieldCount, Value: res.Summary.Total},
		logging.Field{Key: "failed", Value: res.Failed})
	return res, nil
}

func (p *Processor) processFile(inputFile, outputFile string) FileResult {
	start := time.Now()
	fr := FileResult{InputFile: inputFile, OutputFile: outputFile}
	logger := p.logger.WithFields(
		logging.Field{Key: logging.FieldInputFile, Value: inputFile},
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile})

	if p.validate {
		valid, err := p.converter.ValidateFormat(inputFile)
		if err != nil {
			fr.Err = fmt.Errorf("error validating file: %w", err)
		} else if !valid {
			fr.Err = fmt.Errorf("invalid file format: %s", inputFile)
		}
		if fr.Err != nil {
			logger.WithError(fr.Err).Warn("Skipping file")
			return fr
		}
	}

	summary, err := p.converter.ConvertToCSV(inputFile, outputFile)
	if err != nil {
		fr.Err = err
		logger.WithError(err).Error("Failed to convert file",
			logging.Field{Key: logging.FieldStatus, Value: "failed"})
		return fr
	}
	fr.Summary = summary

	logger.Info("Converted file",
		logging.Field{Key: logging.FieldStatus, Value: "ok"},
		logging.Field{Key: logging.FieldCount, Value: summary.Total},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return fr
}
