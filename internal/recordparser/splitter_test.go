package recordparser

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"fjacquet/trs-records/internal/logging"
	"fjacquet/trs-records/internal/models"
	"fjacquet/trs-records/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStatement = `Page 1 of 2
Type : SALE Trs# : 104
Date : 2021-01-05 Invoice# : 9001
... body ...
BALANCE $120.50
Type : VOIDED Trs# : 105
... body ...
BALANCE -$5.00
Page 2 of 2
`

func newTestSplitter(opts ...Option) (*Splitter, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	return NewSplitter(append([]Option{WithLogger(logger)}, opts...)...), logger
}

func TestSplitter_EndToEnd(t *testing.T) {
	s, _ := newTestSplitter()

	records, err := s.Parse(sampleStatement)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, models.Record{
		Type:    models.TransactionTypeSale,
		Trs:     "104",
		Content: "\nDate : 2021-01-05 Invoice# : 9001\n... body ...\nBALANCE $120.50",
	}, records[0])
	assert.Equal(t, models.Record{
		Type:    models.TransactionTypeVoided,
		Trs:     "105",
		Content: "\n... body ...\nBALANCE -$5.00",
	}, records[1])

	for _, r := range records {
		assert.NotContains(t, r.Content, "Page 1 of 2")
		assert.NotContains(t, r.Content, "Page 2 of 2")
	}
}

func TestSplitter_ParsePages(t *testing.T) {
	s, _ := newTestSplitter()
	pages := []string{
		"file:///statements/input.pdf\nType : Trs# : SALE 1\nbody\n",
		"   Page 1 of 2   \nBALANCE $10.00\n\nType : VOIDED Trs# : 2\nBALANCE $0",
	}

	records, err := s.ParsePages(pages)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.TransactionTypeSale, records[0].Type)
	assert.Equal(t, "\nbody\nBALANCE $10.00", records[0].Content)
	assert.Equal(t, models.TransactionTypeVoided, records[1].Type)
	assert.Equal(t, "\nBALANCE $0", records[1].Content)
}

func TestSplitter_NoHeaders(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"plain text", "Statement of account\nBALANCE $10.00"},
		{"noise only", "Page 1 of 1\n\n   \nfile:///tmp/x.pdf\n"},
		{"near-miss headers", "Type : REFUND Trs# : 1\nType: SALE Trs# : 2\nBALANCE $1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSplitter()
			records, err := s.Parse(tt.input)
			require.NoError(t, err)
			assert.NotNil(t, records)
			assert.Empty(t, records)
		})
	}
}

func TestSplitter_PreservesDocumentOrder(t *testing.T) {
	text := strings.Join([]string{
		"Type : VOIDED Trs# : 3", "BALANCE $3",
		"Type : SALE Trs# : 1", "BALANCE $1",
		"Type : Trs# : VOIDED 2", "BALANCE $2",
		"Type : SALE Trs# : 5", "BALANCE $5",
	}, "\n")

	s, _ := newTestSplitter()
	records, err := s.Split(text)
	require.NoError(t, err)

	var trs []string
	for _, r := range records {
		trs = append(trs, r.Trs)
	}
	assert.Equal(t, []string{"3", "1", "2", "5"}, trs)
}

func TestSplitter_ContentsAreOrderedDisjointSpans(t *testing.T) {
	s, _ := newTestSplitter()
	text := Preprocess(sampleStatement + sampleStatement)

	records, err := s.Split(text)
	require.NoError(t, err)
	require.Len(t, records, 4)

	cursor := 0
	for _, r := range records {
		idx := strings.Index(text[cursor:], r.Content)
		require.GreaterOrEqual(t, idx, 0, "content not found after previous record")
		cursor += idx + len(r.Content)

		balance, ok := FindBalance(r.Content, 0)
		require.True(t, ok)
		assert.Equal(t, len(r.Content), balance.End, "content must end with its balance marker")
	}
}

func TestSplitter_SkipsGapsBetweenRecords(t *testing.T) {
	text := "preamble\nType : SALE Trs# : 1\nBALANCE $1\nsubtotal line\nBALANCE $99\ncarried forward\nType : VOIDED Trs# : 2\nBALANCE $2\ntrailer"

	s, _ := newTestSplitter()
	records, err := s.Split(text)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "\nBALANCE $1", records[0].Content)
	assert.Equal(t, "\nBALANCE $2", records[1].Content)
}

func TestSplitter_BalanceOnHeaderLine(t *testing.T) {
	s, _ := newTestSplitter()
	records, err := s.Split("Type : SALE Trs# : 1 BALANCE $3.00 Type : SALE Trs# : 2 BALANCE $4.00")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, " BALANCE $3.00", records[0].Content)
	assert.Equal(t, " BALANCE $4.00", records[1].Content)
}

func TestSplitter_AnchorsWrappedOntoNextLine(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantType    models.TransactionType
		wantTrs     string
		wantContent string
	}{
		{
			name:        "header values on the following line",
			input:       "Type : Trs# :\nSALE 104\nbody\nBALANCE $1.00",
			wantType:    models.TransactionTypeSale,
			wantTrs:     "104",
			wantContent: "\nbody\nBALANCE $1.00",
		},
		{
			name:        "balance amount on the following line",
			input:       "Type : SALE Trs# : 104\nbody\nBALANCE\n$1.00",
			wantType:    models.TransactionTypeSale,
			wantTrs:     "104",
			wantContent: "\nbody\nBALANCE\n$1.00",
		},
		{
			name:        "both wrapped",
			input:       "Type :\nVOIDED\nTrs# : 9\nbody\nBALANCE\n-$2.50",
			wantType:    models.TransactionTypeVoided,
			wantTrs:     "9",
			wantContent: "\nbody\nBALANCE\n-$2.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSplitter()
			records, err := s.Split(tt.input)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.wantType, records[0].Type)
			assert.Equal(t, tt.wantTrs, records[0].Trs)
			assert.Equal(t, tt.wantContent, records[0].Content)
		})
	}
}

func TestSplitter_BalanceWrappedAcrossPageBreak(t *testing.T) {
	s, _ := newTestSplitter()
	pages := []string{
		"Type : SALE Trs# : 7\nbody\nBALANCE",
		"Page 1 of 2\n$9.99\n",
	}

	records, err := s.ParsePages(pages)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "\nbody\nBALANCE\n$9.99", records[0].Content)
}

func TestSplitter_UnclosedHeaderRunsToNextBalance(t *testing.T) {
	text := "Type : SALE Trs# : 1\nno marker here\nType : VOIDED Trs# : 2\nBALANCE $1"

	s, _ := newTestSplitter()
	records, err := s.Split(text)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.TransactionTypeSale, records[0].Type)
	assert.Equal(t, "\nno marker here\nType : VOIDED Trs# : 2\nBALANCE $1", records[0].Content)
}

func TestSplitter_IncompleteTailFails(t *testing.T) {
	text := "Type : SALE Trs# : 1\nBALANCE $1\nType : VOIDED Trs# : 2\nbody without marker"

	s, _ := newTestSplitter()
	records, err := s.Split(text)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, parsererror.ErrIncompleteRecord))

	var incomplete *parsererror.IncompleteRecordError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, "VOIDED", incomplete.Type)
	assert.Equal(t, "2", incomplete.Trs)
	assert.Equal(t, strings.Index(text, "Type : VOIDED"), incomplete.Offset)
}

func TestSplitter_IncompleteTailDropped(t *testing.T) {
	text := "Type : SALE Trs# : 1\nBALANCE $1\nType : VOIDED Trs# : 2\nbody without marker"

	s, logger := newTestSplitter(WithDropIncompleteTail())
	records, err := s.Split(text)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].Trs)

	warnings := logger.GetEntriesByLevel("WARN")
	require.Len(t, warnings, 1)
	assert.Equal(t, "Dropping incomplete trailing record", warnings[0].Message)
	assert.True(t, errors.Is(warnings[0].Error, parsererror.ErrIncompleteRecord))
}

func TestSplitter_ConcurrentUse(t *testing.T) {
	s, _ := newTestSplitter()

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			records, err := s.Parse(sampleStatement)
			if err == nil {
				results[i] = len(records)
			}
		}(i)
	}
	wg.Wait()

	for _, n := range results {
		assert.Equal(t, 2, n)
	}
}

func TestSplit_DefaultSplitter(t *testing.T) {
	records, err := Split(Preprocess(sampleStatement))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
