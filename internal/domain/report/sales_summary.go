package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
)

// DateRange is a closed interval of calendar dates.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange truncates both bounds to calendar dates and requires From <= To.
func NewDateRange(from, to time.Time) (DateRange, error) {
	r := DateRange{From: calendarDate(from), To: calendarDate(to)}
	if r.From.After(r.To) {
		return DateRange{}, domain.ErrInvalidRange
	}
	return r, nil
}

// Contains reports whether d falls within the range, both ends inclusive.
func (r DateRange) Contains(d time.Time) bool {
	day := calendarDate(d)
	return !day.Before(r.From) && !day.After(r.To)
}

// SalesSummary aggregates the invoices dated within a range.
type SalesSummary struct {
	Range         DateRange
	Count         int
	GrandTotalSum decimal.Decimal
	TaxSum        decimal.Decimal
	Invoices      []*entity.Invoice
}

// Summarize selects the invoices inside r and sums their grand and tax totals.
// The result does not depend on the order of invoices.
func Summarize(r DateRange, invoices []*entity.Invoice) SalesSummary {
	s := SalesSummary{Range: r, Invoices: make([]*entity.Invoice, 0)}
	for _, inv := range invoices {
		if inv == nil || !r.Contains(inv.Date) {
			continue
		}
		s.Count++
		s.GrandTotalSum = s.GrandTotalSum.Add(inv.GrandTotal)
		s.TaxSum = s.TaxSum.Add(inv.TotalTax)
		s.Invoices = append(s.Invoices, inv)
	}
	return s
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
