// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"

	"fjacquet/trs-records/internal/logging"
	"fjacquet/trs-records/internal/models"
	"fjacquet/trs-records/internal/recordparser"
	"fjacquet/trs-records/internal/report"
)

// FileParser is the subset of the statement parser used by the commands.
type FileParser interface {
	ValidateFormat(file string) (bool, error)
	ParseFile(path string) ([]models.Record, error)
	ConvertToCSV(inputFile, outputFile string) (models.Summary, error)
}

// ProcessFile optionally validates inputFile, then extracts its records. When
// outputFile is set the records are also written there as CSV.
func ProcessFile(p FileParser, inputFile, outputFile string, validate bool, log logging.Logger) (models.Summary, error) {
	if inputFile == "" {
		return models.Summary{}, fmt.Errorf("input file must be specified")
	}

	if validate {
		log.Info("Validating format...")
		valid, err := p.ValidateFormat(inputFile)
		if err != nil {
			return models.Summary{}, fmt.Errorf("error validating file: %w", err)
		}
		if !valid {
			return models.Summary{}, fmt.Errorf("the file is not in a valid format: %s", inputFile)
		}
		log.Info("Validation successful.")
	}

	if outputFile != "" {
		summary, err := p.ConvertToCSV(inputFile, outputFile)
		if err != nil {
			return models.Summary{}, fmt.Errorf("error converting to CSV: %w", err)
		}
		log.Info("Conversion completed successfully!",
			logging.Field{Key: logging.FieldOutputFile, Value: outputFile})
		return summary, nil
	}

	records, err := p.ParseFile(inputFile)
	if err != nil {
		return models.Summary{}, fmt.Errorf("error extracting records: %w", err)
	}
	return recordparser.Tally(records), nil
}

// PrintSummary renders summary in format and writes it to w.
func PrintSummary(w io.Writer, gen *report.Generator, summary models.Summary, format string) error {
	out, err := gen.Generate(summary, format)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
