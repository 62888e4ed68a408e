// Package gst holds the pure money and tax arithmetic for invoice lines.
// Nothing here rounds: values keep full precision until a presentation
// boundary (document, report) formats them.
package gst

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Sanket93s/gst-billing-system/internal/domain"
)

// MaxQuantity is the largest quantity a stored line can hold.
const MaxQuantity = math.MaxInt32

var hundred = decimal.NewFromInt(100)

// LineAmounts is the computed result for one line.
type LineAmounts struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// CalculateLine computes subtotal = price × qty, tax = subtotal × rate / 100
// and total = subtotal + tax.
func CalculateLine(unitPrice decimal.Decimal, quantity int, rate decimal.Decimal) (LineAmounts, error) {
	if quantity <= 0 || quantity > MaxQuantity {
		return LineAmounts{}, domain.ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return LineAmounts{}, domain.ErrInvalidInput
	}
	if !ValidRate(rate) {
		return LineAmounts{}, domain.ErrInvalidInput
	}
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	tax := subtotal.Mul(rate).Div(hundred)
	return LineAmounts{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}, nil
}

// ValidRate reports whether rate lies in [0, 100].
func ValidRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && !rate.GreaterThan(hundred)
}

// Totals are invoice-level aggregates.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Grand    decimal.Decimal
}

// Add accumulates one line.
func (t *Totals) Add(l LineAmounts) {
	t.Subtotal = t.Subtotal.Add(l.Subtotal)
	t.Tax = t.Tax.Add(l.Tax)
	t.Grand = t.Grand.Add(l.Total)
}

// Sum aggregates a set of lines. An empty set sums to zero.
func Sum(lines []LineAmounts) Totals {
	var t Totals
	for _, l := range lines {
		t.Add(l)
	}
	return t
}

// RateSummary is the taxable value and tax collected at one GST rate.
type RateSummary struct {
	Rate    decimal.Decimal
	Taxable decimal.Decimal
	Tax     decimal.Decimal
}

// RatedLine pairs a rate with the amounts computed for it.
type RatedLine struct {
	Rate    decimal.Decimal
	Amounts LineAmounts
}

// SummarizeByRate groups lines by rate, ascending.
func SummarizeByRate(lines []RatedLine) []RateSummary {
	byRate := make(map[string]*RateSummary)
	for _, l := range lines {
		key := l.Rate.String()
		s, ok := byRate[key]
		if !ok {
			s = &RateSummary{Rate: l.Rate}
			byRate[key] = s
		}
		s.Taxable = s.Taxable.Add(l.Amounts.Subtotal)
		s.Tax = s.Tax.Add(l.Amounts.Tax)
	}
	out := make([]RateSummary, 0, len(byRate))
	for _, s := range byRate {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rate.LessThan(out[j].Rate) })
	return out
}
