// Package recordparser turns the plain text of a paginated statement into
// typed transaction records.
//
// Parsing is two steps. Preprocess removes pagination noise line by line, then
// a Splitter walks the cleaned text once, left to right, cutting it into records
// that start at a header anchor and end at a balance marker.
package recordparser

import (
	"regexp"
	"strings"
)

// footerPattern must match the whole line, not a prefix of it.
var footerPattern = regexp.MustCompile(`^ *Page \d+ of \d+ *$`)

const filePathEchoPrefix = "file://"

// JoinPages concatenates page texts in page order, one line break between pages.
func JoinPages(pages []string) string {
	return strings.Join(pages, "\n")
}

// Preprocess drops page footers, converter file:// echo lines and blank lines,
// and rejoins the remaining lines with "\n". Surviving lines are untouched.
func Preprocess(text string) string {
	lines := strings.FieldsFunc(text, isLineBreak)
	kept := lines[:0]
	for _, line := range lines {
		if isNoiseLine(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isNoiseLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	if strings.HasPrefix(line, filePathEchoPrefix) {
		return true
	}
	return footerPattern.MatchString(line)
}

// isLineBreak covers \r\n endings and the form feed pdftotext puts between pages.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
