// Package models provides the data structures used throughout the application.
package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of a transaction record. The set of values is closed.
type TransactionType string

const (
	TransactionTypeSale   TransactionType = "SALE"
	TransactionTypeVoided TransactionType = "VOIDED"
)

var transactionTypes = []TransactionType{
	TransactionTypeSale,
	TransactionTypeVoided,
}

// TransactionTypes returns every known transaction type in declaration order.
func TransactionTypes() []TransactionType {
	out := make([]TransactionType, len(transactionTypes))
	copy(out, transactionTypes)
	return out
}

// ParseTransactionType returns the TransactionType matching s exactly.
func ParseTransactionType(s string) (TransactionType, error) {
	for _, t := range transactionTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	return string(t)
}

// Record is one transaction entry extracted from a statement.
//
// Content holds the raw text between the end of the header line and the end of
// the balance marker, balance marker included. It is not parsed further.
type Record struct {
	Type    TransactionType `json:"type" yaml:"type"`
	Trs     string          `json:"trs" yaml:"trs"`
	Content string          `json:"content" yaml:"content"`
}

// RecordDetails is a flattened, export-friendly view of a Record.
type RecordDetails struct {
	Type         TransactionType `csv:"Type" json:"type"`
	Trs          string          `csv:"Trs" json:"trs"`
	Date         string          `csv:"Date" json:"date,omitempty"`
	Invoice      string          `csv:"Invoice" json:"invoice,omitempty"`
	BalanceRaw   string          `csv:"BalanceRaw" json:"balanceRaw"`
	Balance      decimal.Decimal `csv:"Balance" json:"balance"`
	BalanceValid bool            `csv:"BalanceValid" json:"balanceValid"`
}
