package gst

import (
	"errors"
	"fmt"

	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
)

// ErrInconsistent marks an invoice whose stored amounts disagree with its lines.
var ErrInconsistent = errors.New("gst: invoice amounts are inconsistent")

// CheckInvoice verifies that every line's amounts follow from its snapshot
// price, quantity and rate, and that the header aggregates equal the line
// sums. Comparisons are exact. All mismatches are reported together.
func CheckInvoice(inv *entity.Invoice, items []*entity.InvoiceItem) error {
	if inv == nil {
		return fmt.Errorf("%w: nil invoice", ErrInconsistent)
	}
	var errs []error
	var totals Totals
	for _, it := range items {
		want, err := CalculateLine(it.UnitPrice, it.Quantity, it.GSTRate)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", it.Position, err))
			continue
		}
		if !it.LineSubtotal.Equal(want.Subtotal) || !it.LineTax.Equal(want.Tax) || !it.LineTotal.Equal(want.Total) {
			errs = append(errs, fmt.Errorf("line %d: stored %s/%s/%s, computed %s/%s/%s", it.Position,
				it.LineSubtotal, it.LineTax, it.LineTotal, want.Subtotal, want.Tax, want.Total))
		}
		totals.Add(LineAmounts{Subtotal: it.LineSubtotal, Tax: it.LineTax, Total: it.LineTotal})
	}
	if !inv.SubtotalBeforeTax.Equal(totals.Subtotal) {
		errs = append(errs, fmt.Errorf("subtotal %s does not match line sum %s", inv.SubtotalBeforeTax, totals.Subtotal))
	}
	if !inv.TotalTax.Equal(totals.Tax) {
		errs = append(errs, fmt.Errorf("tax %s does not match line sum %s", inv.TotalTax, totals.Tax))
	}
	if !inv.GrandTotal.Equal(totals.Grand) {
		errs = append(errs, fmt.Errorf("grand total %s does not match line sum %s", inv.GrandTotal, totals.Grand))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInconsistent}, errs...)...)
	}
	return nil
}
