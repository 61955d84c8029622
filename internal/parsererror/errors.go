package parsererror

import (
	"errors"
	"fmt"
)

// ErrIncompleteRecord is matched by every IncompleteRecordError.
var ErrIncompleteRecord = errors.New("record has no closing balance marker")

// ParseError represents an error during parsing
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidFormatError represents an error where the input file does not conform
// to the expected format for a specific parser.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string // Optional: a snippet of the actual content for debugging
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// GrammarMismatchError reports that a required anchor (header, date or balance)
// does not match the text at Offset.
type GrammarMismatchError struct {
	Anchor  string
	Offset  int
	Snippet string
}

func (e *GrammarMismatchError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("%s anchor does not match at offset %d near '%s'", e.Anchor, e.Offset, e.Snippet)
	}
	return fmt.Sprintf("%s anchor does not match at offset %d", e.Anchor, e.Offset)
}

// IncompleteRecordError reports a header anchor at Offset that is never closed
// by a balance marker before the end of the text.
type IncompleteRecordError struct {
	Type   string
	Trs    string
	Offset int
}

func (e *IncompleteRecordError) Error() string {
	return fmt.Sprintf("%s record Trs# %s at offset %d: %v", e.Type, e.Trs, e.Offset, ErrIncompleteRecord)
}

func (e *IncompleteRecordError) Unwrap() error {
	return ErrIncompleteRecord
}
