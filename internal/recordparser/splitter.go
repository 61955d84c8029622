package recordparser

import (
	"fjacquet/trs-records/internal/logging"
	"fjacquet/trs-records/internal/models"
	"fjacquet/trs-records/internal/parsererror"
)

// Splitter cuts cleaned statement text into records. It keeps no state between
// calls and is safe for concurrent use.
type Splitter struct {
	logger             logging.Logger
	dropIncompleteTail bool
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger logging.Logger) Option {
	return func(s *Splitter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDropIncompleteTail makes Split return the complete records and log a
// warning when the last header is never closed by a balance marker, instead of
// failing with an IncompleteRecordError.
func WithDropIncompleteTail() Option {
	return func(s *Splitter) {
		s.dropIncompleteTail = true
	}
}

// NewSplitter creates a Splitter.
func NewSplitter(opts ...Option) *Splitter {
	s := &Splitter{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewLogrusAdapter("info", "text")
	}
	return s
}

// Split returns the records of text in document order.
//
// A record starts at a header anchor and runs to the end of the first balance
// marker after it; Content is text[header end:marker end]. Text between two
// records is skipped. Scanning for the next header resumes right after the
// previous marker, so the text is read once.
//
// Text without any header yields an empty slice and no error. A header with no
// balance marker after it yields an *parsererror.IncompleteRecordError unless
// the Splitter was built WithDropIncompleteTail.
func (s *Splitter) Split(text string) ([]models.Record, error) {
	records := []models.Record{}
	cursor := 0

	for {
		header, ok := FindHeader(text, cursor)
		if !ok {
			break
		}

		balance, ok := FindBalance(text, header.End)
		if !ok {
			incomplete := &parsererror.IncompleteRecordError{
				Type:   header.Type.String(),
				Trs:    header.Trs,
				Offset: header.Start,
			}
			if !s.dropIncompleteTail {
				return nil, incomplete
			}
			s.logger.WithError(incomplete).Warn("Dropping incomplete trailing record",
				logging.Field{Key: logging.FieldRecordType, Value: header.Type},
				logging.Field{Key: logging.FieldTrs, Value: header.Trs})
			break
		}

		records = append(records, models.Record{
			Type:    header.Type,
			Trs:     header.Trs,
			Content: text[header.End:balance.End],
		})
		s.logger.Debug("Matched record",
			logging.Field{Key: logging.FieldRecordType, Value: header.Type},
			logging.Field{Key: logging.FieldTrs, Value: header.Trs},
			logging.Field{Key: "layout", Value: header.Layout.String()},
			logging.Field{Key: "offset", Value: header.Start})

		cursor = balance.End
	}

	s.logger.Debug("Split text into records",
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return records, nil
}

// Split splits text with a default Splitter.
func Split(text string) ([]models.Record, error) {
	return NewSplitter().Split(text)
}

// Parse preprocesses raw text and splits it into records.
func (s *Splitter) Parse(raw string) ([]models.Record, error) {
	return s.Split(Preprocess(raw))
}

// ParsePages joins page texts, preprocesses them and splits them into records.
func (s *Splitter) ParsePages(pages []string) ([]models.Record, error) {
	return s.Parse(JoinPages(pages))
}
