package recordparser

import (
	"fjacquet/trs-records/internal/currencyutils"
	"fjacquet/trs-records/internal/models"

	"github.com/shopspring/decimal"
)

// Describe derives the export view of r: the first date anchor found in the
// content and the balance marker that closes it.
func Describe(r models.Record) models.RecordDetails {
	d := models.RecordDetails{
		Type:    r.Type,
		Trs:     r.Trs,
		Balance: decimal.Zero,
	}

	if date, ok := FindDate(r.Content, 0); ok {
		d.Date = date.Date
		d.Invoice = date.Invoice
	}

	if balance, ok := FindBalance(r.Content, 0); ok {
		d.BalanceRaw = balance.Amount
		if amount, err := currencyutils.ParseAmount(balance.Amount); err == nil {
			d.Balance = amount
			d.BalanceValid = true
		}
	}

	return d
}

// DescribeAll applies Describe to every record, keeping order.
func DescribeAll(records []models.Record) []models.RecordDetails {
	out := make([]models.RecordDetails, 0, len(records))
	for _, r := range records {
		out = append(out, Describe(r))
	}
	return out
}

// Tally counts records per type.
func Tally(records []models.Record) models.Summary {
	s := models.NewSummary()
	for _, r := range records {
		s.Add(r.Type)
	}
	return s
}
