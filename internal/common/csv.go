// Package common provides the CSV plumbing shared by the commands and the API.
package common

import (
	"encoding/csv"
	"fmt"

	"fjacquet/trs-records/internal/fileutils"
	"fjacquet/trs-records/internal/logging"
	"fjacquet/trs-records/internal/models"

	"github.com/gocarina/gocsv"
)

// Delimiter is the field separator used for CSV output.
var Delimiter rune = ','

// IncludeHeaders controls whether CSV output starts with a header row.
var IncludeHeaders = true

// SetDelimiter sets the delimiter for CSV output.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// SetIncludeHeaders toggles the CSV header row.
func SetIncludeHeaders(include bool) {
	IncludeHeaders = include
}

// WriteRecordsToCSV writes one row per record to csvFile, creating parent
// directories as needed. An empty slice still produces the header row
// unless IncludeHeaders is false.
func WriteRecordsToCSV(details []models.RecordDetails, csvFile string, logger logging.Logger) error {
	if details == nil {
		return fmt.Errorf("cannot write nil records to CSV")
	}

	logger.Info("Writing records to CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(details)},
		logging.Field{Key: logging.FieldDelimiter, Value: string(Delimiter)})

	file, err := fileutils.CreateFile(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter

	marshal := gocsv.MarshalCSV
	if !IncludeHeaders {
		marshal = gocsv.MarshalCSVWithoutHeaders
	}
	if err := marshal(&details, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	return nil
}
