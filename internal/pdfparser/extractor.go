package pdfparser

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"fjacquet/trs-records/internal/config"

	"github.com/ledongthuc/pdf"
)

// PageExtractor turns a document on disk into its text, one string per page.
type PageExtractor interface {
	ExtractPages(path string) ([]string, error)
}

// NewExtractor returns the extractor configured by name (see config.Extractor*).
func NewExtractor(name string) (PageExtractor, error) {
	switch name {
	case "", config.ExtractorLibrary:
		return NewLibraryExtractor(), nil
	case config.ExtractorPdftotext:
		return NewPdftotextExtractor(), nil
	case config.ExtractorText:
		return NewTextExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown pdf extractor: %s", name)
	}
}

// LibraryExtractor reads PDFs in-process with github.com/ledongthuc/pdf.
type LibraryExtractor struct{}

// NewLibraryExtractor creates a new LibraryExtractor instance.
func NewLibraryExtractor() *LibraryExtractor {
	return &LibraryExtractor{}
}

// ExtractPages rebuilds each page line by line from the PDF text rows.
func (e *LibraryExtractor) ExtractPages(path string) (pages []string, err error) {
	// the pdf package panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	numPages := r.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("error reading page %d: %w", i, err)
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			lines = append(lines, strings.Join(words, " "))
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}

	return pages, nil
}

// PdftotextExtractor shells out to poppler's pdftotext in layout mode.
type PdftotextExtractor struct {
	// Binary is the pdftotext executable; defaults to "pdftotext" on PATH.
	Binary string
}

// NewPdftotextExtractor creates a new PdftotextExtractor instance.
func NewPdftotextExtractor() *PdftotextExtractor {
	return &PdftotextExtractor{Binary: "pdftotext"}
}

// ExtractPages runs pdftotext and splits its output on the form feeds it
// writes after every page.
func (e *PdftotextExtractor) ExtractPages(path string) ([]string, error) {
	binary := e.Binary
	if binary == "" {
		binary = "pdftotext"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.Command(binary, "-layout", path, "-") // #nosec G204 -- binary is configuration, path is the input file
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("error running pdftotext: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return splitPages(string(out)), nil
}

// TextExtractor reads documents that were already converted to plain text.
// Form feeds separate pages.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor instance.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractPages reads the file and splits it on form feeds.
func (e *TextExtractor) ExtractPages(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return nil, fmt.Errorf("error reading text file: %w", err)
	}
	return splitPages(string(data)), nil
}

// MockExtractor implements PageExtractor for testing purposes.
type MockExtractor struct {
	MockPages []string
	MockErr   error
	Calls     []string
}

// NewMockExtractor creates a new MockExtractor with the given mock data.
func NewMockExtractor(mockPages []string, mockErr error) *MockExtractor {
	return &MockExtractor{
		MockPages: mockPages,
		MockErr:   mockErr,
	}
}

// ExtractPages returns the predefined pages or error.
func (e *MockExtractor) ExtractPages(path string) ([]string, error) {
	e.Calls = append(e.Calls, path)
	if e.MockErr != nil {
		return nil, e.MockErr
	}
	return e.MockPages, nil
}

// splitPages splits on form feeds and drops the empty page after a trailing one.
func splitPages(text string) []string {
	pages := strings.Split(text, "\f")
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}
