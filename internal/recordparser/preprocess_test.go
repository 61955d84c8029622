package recordparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "drops page footers",
			input:    "Page 1 of 2\nType : SALE Trs# : 1\n   Page 10 of 12   \nBALANCE $1.00",
			expected: "Type : SALE Trs# : 1\nBALANCE $1.00",
		},
		{
			name:     "keeps lines that only contain a footer",
			input:    "Page 1 of 2 continued\nSee Page 3 of 4",
			expected: "Page 1 of 2 continued\nSee Page 3 of 4",
		},
		{
			name:     "drops file path echoes",
			input:    "file:///tmp/input.pdf\nbody\n file://not-a-prefix",
			expected: "body\n file://not-a-prefix",
		},
		{
			name:     "drops blank and whitespace-only lines",
			input:    "a\n\n   \n\t\nb\n",
			expected: "a\nb",
		},
		{
			name:     "normalizes CRLF and form feeds",
			input:    "a\r\nb\fPage 2 of 2\fc",
			expected: "a\nb\nc",
		},
		{
			name:     "surviving lines are untouched",
			input:    "  Type : SALE   Trs# : 104  ",
			expected: "  Type : SALE   Trs# : 104  ",
		},
		{
			name:     "noise only",
			input:    "Page 1 of 1\n\n file\nfile:///x\n",
			expected: " file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Preprocess(tt.input))
		})
	}
}

func TestPreprocess_OutputHasNoNoiseLines(t *testing.T) {
	inputs := []string{
		"Page 1 of 3\n\nfile:///a.pdf\nType : SALE Trs# : 1\nx\nBALANCE $1\n  Page 2 of 3\n",
		"\n\n\n",
		"file://only",
		sampleStatement,
	}

	for _, input := range inputs {
		out := Preprocess(input)
		if out == "" {
			continue
		}
		for _, line := range strings.Split(out, "\n") {
			assert.False(t, footerPattern.MatchString(line), "footer line survived: %q", line)
			assert.False(t, strings.HasPrefix(line, "file://"), "file:// line survived: %q", line)
			assert.NotEmpty(t, strings.TrimSpace(line), "blank line survived")
		}
	}
}

func TestPreprocess_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Page 1 of 2\n\nType : SALE Trs# : 104\r\nBALANCE $1\f\fPage 2 of 2",
		sampleStatement,
		"  \t\nfile://x\n a \n",
	}

	for _, input := range inputs {
		once := Preprocess(input)
		assert.Equal(t, once, Preprocess(once))
	}
}

func TestJoinPages(t *testing.T) {
	assert.Equal(t, "", JoinPages(nil))
	assert.Equal(t, "one", JoinPages([]string{"one"}))
	assert.Equal(t, "one\ntwo\nthree", JoinPages([]string{"one", "two", "three"}))
}
