// Package pdfparser reads statement documents and extracts their transaction
// records.
package pdfparser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/trs-records/internal/common"
	"fjacquet/trs-records/internal/logging"
	"fjacquet/trs-records/internal/models"
	"fjacquet/trs-records/internal/parsererror"
	"fjacquet/trs-records/internal/recordparser"
)

const parserName = "PDF"

var pdfMagic = []byte("%PDF-")

// Parser extracts records from statement files using an injected PageExtractor.
type Parser struct {
	logger    logging.Logger
	extractor PageExtractor
	splitter  *recordparser.Splitter
}

// NewParser creates a Parser. A nil logger falls back to an info-level logrus
// logger and a nil extractor to the in-process LibraryExtractor.
func NewParser(logger logging.Logger, extractor PageExtractor, opts ...recordparser.Option) *Parser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if extractor == nil {
		extractor = NewLibraryExtractor()
	}
	opts = append([]recordparser.Option{recordparser.WithLogger(logger)}, opts...)
	return &Parser{
		logger:    logger,
		extractor: extractor,
		splitter:  recordparser.NewSplitter(opts...),
	}
}

// GetLogger returns the parser's logger.
func (p *Parser) GetLogger() logging.Logger {
	return p.logger
}

// ParseFile extracts the pages of the file at path and splits them into records.
func (p *Parser) ParseFile(path string) ([]models.Record, error) {
	p.logger.Info("Parsing statement file",
		logging.Field{Key: logging.FieldParser, Value: parserName},
		logging.Field{Key: logging.FieldFile, Value: path})

	pages, err := p.extractor.ExtractPages(path)
	if err != nil {
		return nil, &parsererror.ParseError{
			Parser: parserName,
			Field:  "text extraction",
			Value:  path,
			Err:    err,
		}
	}
	p.logger.Debug("Extracted pages",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldPages, Value: len(pages)})

	records, err := p.splitter.ParsePages(pages)
	if err != nil {
		return nil, &parsererror.ParseError{
			Parser: parserName,
			Field:  "records",
			Value:  path,
			Err:    err,
		}
	}

	p.logger.Info("Extracted records",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return records, nil
}

// Parse spools r to a temporary file and parses it with ParseFile.
func (p *Parser) Parse(r io.Reader) ([]models.Record, error) {
	tempFile, err := os.CreateTemp("", "statement-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err := os.Remove(tempFile.Name()); err != nil {
			p.logger.WithError(err).Warn("Failed to remove temporary file",
				logging.Field{Key: logging.FieldFile, Value: tempFile.Name()})
		}
	}()

	_, copyErr := io.Copy(tempFile, r)
	closeErr := tempFile.Close()
	if copyErr != nil {
		return nil, fmt.Errorf("failed to write temporary file: %w", copyErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close temporary file: %w", closeErr)
	}

	return p.ParseFile(tempFile.Name())
}

// ParseText parses text that was already extracted, bypassing the extractor.
func (p *Parser) ParseText(raw string) ([]models.Record, error) {
	records, err := p.splitter.Parse(raw)
	if err != nil {
		return nil, &parsererror.ParseError{
			Parser: parserName,
			Field:  "records",
			Value:  "extracted text",
			Err:    err,
		}
	}
	return records, nil
}

// ValidateFormat reports whether file looks like a document this parser can
// read: a PDF (by magic number) or a .txt file. A missing file is an error.
func (p *Parser) ValidateFormat(file string) (bool, error) {
	p.logger.Info("Validating statement format",
		logging.Field{Key: logging.FieldFile, Value: file})

	f, err := os.Open(file) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return false, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(file), ".txt") {
		return true, nil
	}

	head := make([]byte, 1024)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, fmt.Errorf("error reading file: %w", err)
	}
	if !bytes.Contains(head[:n], pdfMagic) {
		p.logger.Warn("File is not a PDF",
			logging.Field{Key: logging.FieldFile, Value: file})
		return false, nil
	}
	return true, nil
}

// ConvertToCSV parses inputFile and writes one CSV row per record to outputFile.
// It returns the per-type tally of the written records.
func (p *Parser) ConvertToCSV(inputFile, outputFile string) (models.Summary, error) {
	records, err := p.ParseFile(inputFile)
	if err != nil {
		return models.Summary{}, err
	}

	if err := common.WriteRecordsToCSV(recordparser.DescribeAll(records), outputFile, p.logger); err != nil {
		return models.Summary{}, err
	}

	return recordparser.Tally(records), nil
}
