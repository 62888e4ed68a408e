package billing

import (
	"context"
	"fmt"

	"github.com/Sanket93s/gst-billing-system/internal/application/dto"
	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
	"github.com/Sanket93s/gst-billing-system/internal/domain/repository"
)

// Assembler turns stored invoices into fully nested responses: customer,
// lines in position order and product display fields.
type Assembler struct {
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	invoiceRepo  repository.InvoiceRepository
}

// NewAssembler builds an Assembler.
func NewAssembler(
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
) *Assembler {
	return &Assembler{customerRepo: customerRepo, productRepo: productRepo, invoiceRepo: invoiceRepo}
}

// Assemble loads lines, customers and products for invoices in three batched
// reads and keeps the input order.
func (a *Assembler) Assemble(ctx context.Context, invoices []*entity.Invoice) ([]dto.InvoiceResponse, error) {
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	if len(invoices) == 0 {
		return out, nil
	}
	invoiceIDs := make([]string, 0, len(invoices))
	customerIDs := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		invoiceIDs = append(invoiceIDs, inv.ID)
		customerIDs = append(customerIDs, inv.CustomerID)
	}

	items, err := a.invoiceRepo.ItemsByInvoiceIDs(ctx, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("load invoice items: %w", err)
	}
	customers, err := a.customerRepo.GetByIDs(ctx, uniqueIDs(customerIDs))
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	customersByID := make(map[string]*entity.Customer, len(customers))
	for _, c := range customers {
		customersByID[c.ID] = c
	}

	var productIDs []string
	for _, lines := range items {
		for _, it := range lines {
			productIDs = append(productIDs, it.ProductID)
		}
	}
	products, err := a.productRepo.GetByIDs(ctx, uniqueIDs(productIDs))
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	productsByID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}

	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv, customersByID[inv.CustomerID], items[inv.ID], productsByID))
	}
	return out, nil
}

// AssembleOne is Assemble for a single invoice.
func (a *Assembler) AssembleOne(ctx context.Context, inv *entity.Invoice) (*dto.InvoiceResponse, error) {
	list, err := a.Assemble(ctx, []*entity.Invoice{inv})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

func toInvoiceResponse(inv *entity.Invoice, customer *entity.Customer, items []*entity.InvoiceItem, products map[string]*entity.Product) dto.InvoiceResponse {
	resp := dto.InvoiceResponse{
		ID:                inv.ID,
		Number:            inv.Number,
		Date:              inv.Date.Format(dto.DateLayout),
		CustomerID:        inv.CustomerID,
		PaymentStatus:     string(inv.PaymentStatus),
		Notes:             inv.Notes,
		SubtotalBeforeTax: inv.SubtotalBeforeTax,
		TotalTax:          inv.TotalTax,
		GrandTotal:        inv.GrandTotal,
		Version:           inv.Version,
		Items:             make([]dto.InvoiceItemResponse, 0, len(items)),
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
	if customer != nil {
		c := ToCustomerResponse(customer)
		resp.Customer = &c
	}
	for _, it := range items {
		line := dto.InvoiceItemResponse{
			ID:           it.ID,
			Position:     it.Position,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			GSTRate:      it.GSTRate,
			LineSubtotal: it.LineSubtotal,
			LineTax:      it.LineTax,
			LineTotal:    it.LineTotal,
		}
		if p := products[it.ProductID]; p != nil {
			line.ProductName = p.Name
			line.HSNSAC = p.HSNSAC
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}
