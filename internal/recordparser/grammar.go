package recordparser

import (
	"strings"

	"fjacquet/trs-records/internal/models"
	"fjacquet/trs-records/internal/parsererror"
)

// Grammar tokens.
const (
	labelType    = "Type :"
	labelTrs     = "Trs# :"
	labelDate    = "Date :"
	labelInvoice = "Invoice# :"
	labelBalance = "BALANCE"
)

// Anchor names used in GrammarMismatchError.
const (
	AnchorHeader  = "header"
	AnchorDate    = "date"
	AnchorBalance = "balance"
)

const snippetLen = 24

// Layout is the column ordering of a two-field anchor line. pdftotext emits
// either ordering depending on how it slices the columns.
type Layout int

const (
	// LayoutInline is "Label1 value1 Label2 value2".
	LayoutInline Layout = iota
	// LayoutSplit is "Label1 Label2 value1 value2".
	LayoutSplit
)

// layouts is the priority order; the first layout that matches wins.
var layouts = [...]Layout{LayoutInline, LayoutSplit}

func (l Layout) String() string {
	switch l {
	case LayoutInline:
		return "inline"
	case LayoutSplit:
		return "split"
	default:
		return "unknown"
	}
}

// HeaderMatch is a matched "Type : ... Trs# : ..." anchor.
type HeaderMatch struct {
	Start  int
	End    int
	Type   models.TransactionType
	Trs    string
	Layout Layout
}

// DateMatch is a matched "Date : ... Invoice# : ..." anchor.
type DateMatch struct {
	Start   int
	End     int
	Date    string
	Invoice string
	Layout  Layout
}

// BalanceMatch is a matched "BALANCE <amount>" marker.
type BalanceMatch struct {
	Start  int
	End    int
	Amount string
}

// tokenFunc matches a value token at pos (gap already skipped) and returns
// the end offset.
type tokenFunc func(text string, pos int) (int, bool)

// labelledPair is an anchor made of two labels and two values that may come in
// either Layout.
type labelledPair struct {
	firstLabel  string
	secondLabel string
	first       tokenFunc
	second      tokenFunc
}

type pairMatch struct {
	start, end    int
	first, second string
	layout        Layout
}

var (
	headerPair = labelledPair{
		firstLabel:  labelType,
		secondLabel: labelTrs,
		first:       typeToken,
		second:      wordToken(isDigit),
	}
	datePair = labelledPair{
		firstLabel:  labelDate,
		secondLabel: labelInvoice,
		first:       wordToken(isDateChar),
		second:      wordToken(isDigit),
	}
)

// match tries every layout at pos in priority order.
func (p labelledPair) match(text string, pos int) (pairMatch, bool) {
	pos = skipGap(text, pos)
	for _, layout := range layouts {
		if m, ok := p.matchLayout(text, pos, layout); ok {
			return m, true
		}
	}
	return pairMatch{}, false
}

func (p labelledPair) matchLayout(text string, pos int, layout Layout) (pairMatch, bool) {
	m := pairMatch{start: pos, layout: layout}
	cur, ok := literal(text, pos, p.firstLabel)
	if !ok {
		return m, false
	}

	var firstStart, firstEnd, secondStart, secondEnd int
	switch layout {
	case LayoutInline:
		if firstStart, firstEnd, ok = token(text, cur, p.first); !ok {
			return m, false
		}
		if cur, ok = literal(text, firstEnd, p.secondLabel); !ok {
			return m, false
		}
		if secondStart, secondEnd, ok = token(text, cur, p.second); !ok {
			return m, false
		}
	case LayoutSplit:
		if cur, ok = literal(text, cur, p.secondLabel); !ok {
			return m, false
		}
		if firstStart, firstEnd, ok = token(text, cur, p.first); !ok {
			return m, false
		}
		if secondStart, secondEnd, ok = token(text, firstEnd, p.second); !ok {
			return m, false
		}
	default:
		return m, false
	}

	m.end = secondEnd
	m.first = text[firstStart:firstEnd]
	m.second = text[secondStart:secondEnd]
	return m, true
}

// find returns the first match at or after from whose first label starts at a
// candidate position; failed candidates advance the scan by one byte.
func (p labelledPair) find(text string, from int) (pairMatch, bool) {
	for from <= len(text) {
		idx := strings.Index(text[from:], p.firstLabel)
		if idx < 0 {
			return pairMatch{}, false
		}
		at := from + idx
		if m, ok := p.match(text, at); ok {
			return m, true
		}
		from = at + 1
	}
	return pairMatch{}, false
}

// MatchHeader matches a header anchor at pos, after optional whitespace.
func MatchHeader(text string, pos int) (HeaderMatch, error) {
	if pos < 0 || pos > len(text) {
		return HeaderMatch{}, mismatch(AnchorHeader, text, pos)
	}
	m, ok := headerPair.match(text, pos)
	if !ok {
		return HeaderMatch{}, mismatch(AnchorHeader, text, pos)
	}
	return toHeader(m), nil
}

// FindHeader returns the first header anchor at or after from.
func FindHeader(text string, from int) (HeaderMatch, bool) {
	m, ok := headerPair.find(text, from)
	if !ok {
		return HeaderMatch{}, false
	}
	return toHeader(m), true
}

// MatchDate matches a date anchor at pos, after optional whitespace.
func MatchDate(text string, pos int) (DateMatch, error) {
	if pos < 0 || pos > len(text) {
		return DateMatch{}, mismatch(AnchorDate, text, pos)
	}
	m, ok := datePair.match(text, pos)
	if !ok {
		return DateMatch{}, mismatch(AnchorDate, text, pos)
	}
	return toDate(m), nil
}

// FindDate returns the first date anchor at or after from.
func FindDate(text string, from int) (DateMatch, bool) {
	m, ok := datePair.find(text, from)
	if !ok {
		return DateMatch{}, false
	}
	return toDate(m), true
}

// MatchBalance matches a balance marker at pos, after optional whitespace.
func MatchBalance(text string, pos int) (BalanceMatch, error) {
	if pos < 0 || pos > len(text) {
		return BalanceMatch{}, mismatch(AnchorBalance, text, pos)
	}
	m, ok := matchBalance(text, skipGap(text, pos))
	if !ok {
		return BalanceMatch{}, mismatch(AnchorBalance, text, pos)
	}
	return m, nil
}

// FindBalance returns the first balance marker at or after from.
func FindBalance(text string, from int) (BalanceMatch, bool) {
	for from <= len(text) {
		idx := strings.Index(text[from:], labelBalance)
		if idx < 0 {
			return BalanceMatch{}, false
		}
		at := from + idx
		if m, ok := matchBalance(text, at); ok {
			return m, true
		}
		from = at + 1
	}
	return BalanceMatch{}, false
}

func matchBalance(text string, pos int) (BalanceMatch, bool) {
	cur, ok := literal(text, pos, labelBalance)
	if !ok {
		return BalanceMatch{}, false
	}
	start, end, ok := token(text, cur, wordToken(isAmountChar))
	if !ok {
		return BalanceMatch{}, false
	}
	return BalanceMatch{Start: pos, End: end, Amount: text[start:end]}, true
}

func toHeader(m pairMatch) HeaderMatch {
	return HeaderMatch{
		Start:  m.start,
		End:    m.end,
		Type:   models.TransactionType(m.first),
		Trs:    m.second,
		Layout: m.layout,
	}
}

func toDate(m pairMatch) DateMatch {
	return DateMatch{
		Start:   m.start,
		End:     m.end,
		Date:    m.first,
		Invoice: m.second,
		Layout:  m.layout,
	}
}

// literal skips the gap and matches lit exactly.
func literal(text string, pos int, lit string) (int, bool) {
	pos = skipGap(text, pos)
	if strings.HasPrefix(text[pos:], lit) {
		return pos + len(lit), true
	}
	return pos, false
}

// token skips the gap and applies fn.
func token(text string, pos int, fn tokenFunc) (start, end int, ok bool) {
	start = skipGap(text, pos)
	end, ok = fn(text, start)
	return start, end, ok
}

// typeToken matches the longest transaction type literal at pos.
func typeToken(text string, pos int) (int, bool) {
	best := -1
	for _, t := range models.TransactionTypes() {
		if strings.HasPrefix(text[pos:], string(t)) && len(t) > best {
			best = len(t)
		}
	}
	if best < 0 {
		return pos, false
	}
	return pos + best, true
}

// wordToken matches a non-empty run of bytes accepted by allowed.
func wordToken(allowed func(byte) bool) tokenFunc {
	return func(text string, pos int) (int, bool) {
		end := pos
		for end < len(text) && allowed(text[end]) {
			end++
		}
		return end, end > pos
	}
}

// skipGap skips the whitespace allowed between anchor tokens. Line breaks are
// included so an anchor may wrap onto the next line; value tokens themselves
// never contain whitespace.
func skipGap(text string, pos int) int {
	for pos < len(text) && isGapChar(text[pos]) {
		pos++
	}
	return pos
}

func isGapChar(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isDateChar(c byte) bool {
	return isDigit(c) || c == '-'
}

func isAmountChar(c byte) bool {
	return isDigit(c) || c == '-' || c == '$' || c == '.'
}

func mismatch(anchor, text string, pos int) error {
	return &parsererror.GrammarMismatchError{
		Anchor:  anchor,
		Offset:  pos,
		Snippet: snippet(text, pos),
	}
}

func snippet(text string, pos int) string {
	if pos < 0 || pos >= len(text) {
		return ""
	}
	s := text[pos:]
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	if len(s) > snippetLen {
		s = s[:snippetLen]
	}
	return s
}
