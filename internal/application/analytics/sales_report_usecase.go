// Package analytics holds read-only reporting over committed invoices.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/Sanket93s/gst-billing-system/internal/application/billing"
	"github.com/Sanket93s/gst-billing-system/internal/application/dto"
	"github.com/Sanket93s/gst-billing-system/internal/domain/report"
	"github.com/Sanket93s/gst-billing-system/internal/domain/repository"
)

// SalesReportUseCase summarizes the invoices dated inside a date range.
type SalesReportUseCase struct {
	reader billing.SnapshotReader
}

// NewSalesReportUseCase builds the use case.
func NewSalesReportUseCase(reader billing.SnapshotReader) *SalesReportUseCase {
	return &SalesReportUseCase{reader: reader}
}

// Sales returns count, grand total sum and tax sum for invoices dated within
// [from, to], both inclusive, plus the invoices themselves.
func (uc *SalesReportUseCase) Sales(ctx context.Context, from, to time.Time) (*dto.SalesReportResponse, error) {
	r, err := report.NewDateRange(from, to)
	if err != nil {
		return nil, err
	}
	var (
		summary  report.SalesSummary
		detailed []dto.InvoiceResponse
	)
	err = uc.reader.ReadSnapshot(ctx, func(
		customerRepo repository.CustomerRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		invoices, err := invoiceRepo.ListByDateRange(ctx, r.From, r.To)
		if err != nil {
			return fmt.Errorf("list invoices by date: %w", err)
		}
		summary = report.Summarize(r, invoices)
		detailed, err = billing.NewAssembler(customerRepo, productRepo, invoiceRepo).Assemble(ctx, summary.Invoices)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.SalesReportResponse{
		From:          r.From.Format(dto.DateLayout),
		To:            r.To.Format(dto.DateLayout),
		Count:         summary.Count,
		GrandTotalSum: summary.GrandTotalSum,
		TaxSum:        summary.TaxSum,
		Invoices:      detailed,
	}, nil
}
