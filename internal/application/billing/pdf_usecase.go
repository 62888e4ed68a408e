package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
	"github.com/Sanket93s/gst-billing-system/internal/domain/gst"
	"github.com/Sanket93s/gst-billing-system/internal/domain/repository"
)

// DocumentOptions are the static parts of every rendered invoice.
type DocumentOptions struct {
	Title    string
	Currency string
	Seller   Seller
}

// PDFUseCase renders the printable form of a stored invoice. It reads one
// committed snapshot and never writes.
type PDFUseCase struct {
	reader    SnapshotReader
	generator InvoicePDFGenerator
	opts      DocumentOptions
}

// NewPDFUseCase builds the use case.
func NewPDFUseCase(reader SnapshotReader, generator InvoicePDFGenerator, opts DocumentOptions) *PDFUseCase {
	if opts.Title == "" {
		opts.Title = "Tax Invoice"
	}
	return &PDFUseCase{reader: reader, generator: generator, opts: opts}
}

// DownloadInvoicePDF loads the invoice with customer and line products and
// returns the PDF bytes and the attachment file name.
//
// Returns domain.ErrInvoiceNotFound when the invoice does not exist and an
// error matching domain.ErrRenderIO when the generator fails.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	doc, err := uc.Document(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: %w: %w", domain.ErrRenderIO, err)
	}
	return pdfBytes, Filename(doc.Invoice.Number), nil
}

// Document builds the render snapshot. Missing products fall back to their id.
func (uc *PDFUseCase) Document(ctx context.Context, invoiceID string) (*InvoiceDocument, error) {
	id, ok := canonicalID(invoiceID)
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	var doc *InvoiceDocument
	err := uc.reader.ReadSnapshot(ctx, func(
		customerRepo repository.CustomerRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		var err error
		doc, err = uc.document(ctx, id, customerRepo, productRepo, invoiceRepo)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (uc *PDFUseCase) document(
	ctx context.Context,
	id string,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
) (*InvoiceDocument, error) {
	inv, err := invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pdf: load invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	customer, err := customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("pdf: load customer: %w", err)
	}
	items, err := invoiceRepo.ItemsByInvoiceID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pdf: load items: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := productRepo.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("pdf: load products: %w", err)
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	doc := &InvoiceDocument{
		Title:    uc.opts.Title,
		Currency: uc.opts.Currency,
		Seller:   uc.opts.Seller,
		Invoice:  *inv,
		Customer: customer,
		Lines:    make([]DocumentLine, 0, len(items)),
	}
	rated := make([]gst.RatedLine, 0, len(items))
	for _, it := range items {
		line := DocumentLine{InvoiceItem: *it, ProductName: "Product " + it.ProductID}
		if p := byID[it.ProductID]; p != nil {
			line.ProductName = p.Name
			line.HSNSAC = p.HSNSAC
		}
		doc.Lines = append(doc.Lines, line)
		rated = append(rated, gst.RatedLine{
			Rate:    it.GSTRate,
			Amounts: gst.LineAmounts{Subtotal: it.LineSubtotal, Tax: it.LineTax, Total: it.LineTotal},
		})
	}
	doc.ByRate = gst.SummarizeByRate(rated)
	return doc, nil
}

// Filename is the attachment name for an invoice number. Characters unsafe in
// file names become underscores.
func Filename(number string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, strings.TrimSpace(number))
	if clean == "" {
		clean = "draft"
	}
	return "invoice_" + clean + ".pdf"
}
