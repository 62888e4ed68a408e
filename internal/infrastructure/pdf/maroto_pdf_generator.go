// Package pdf renders the printable GST tax invoice.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: seller name + GSTIN   │  title, number, date       │
//	│  SELLER: address / phone                                    │
//	│  BILL TO: customer name, contact, address, GSTIN            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: # | Product | HSN/SAC | Qty | Price | GST% | Tax | Total
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALS: subtotal / tax / grand total                       │
//	│  GST SUMMARY: taxable value and tax per rate                │
//	│  NOTES                                                      │
//	│  FOOTER: QR with number|date|total|GSTINs                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/Sanket93s/gst-billing-system/internal/application/billing"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Palette ───────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const blank = "-"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implements billing.InvoicePDFGenerator with Maroto v2.
// It keeps no per-invoice state.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator builds the generator.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF renders doc and returns the PDF bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc *appbilling.InvoiceDocument) ([]byte, error) {
	m, err := build(doc)
	if err != nil {
		return nil, err
	}
	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return out.GetBytes(), nil
}

// build lays out every section of doc without rendering it.
func build(doc *appbilling.InvoiceDocument) (core.Maroto, error) {
	if doc == nil {
		return nil, fmt.Errorf("pdf: nil document")
	}
	f := newFormatter(doc.Currency)

	author := doc.Seller.Name
	if author == "" {
		author = doc.Title
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(doc.Title+" "+doc.Invoice.Number, true).
		WithAuthor(author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if r, ok := sellerRow(doc.Seller); ok {
		m.AddRows(r)
	}
	if doc.Customer != nil {
		m.AddRows(customerRow(doc))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(doc.Lines, f)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc, f))
	m.AddRows(rateSummaryRows(doc, f)...)

	if notes := strings.TrimSpace(doc.Invoice.Notes); notes != "" {
		m.AddRows(notesRows(notes)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc))
	return m, nil
}

// ── Sections ──────────────────────────────────────────────────────────────────

func headerRow(doc *appbilling.InvoiceDocument) core.Row {
	inv := doc.Invoice
	name := nonEmpty(doc.Seller.Name, doc.Title)
	left := col.New(7).Add(
		text.New(name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
	)
	if doc.Seller.GSTIN != "" {
		left.Add(text.New("GSTIN: "+doc.Seller.GSTIN, props.Text{Size: 9, Top: 9, Color: colorGray}))
	}
	return row.New(22).Add(
		left,
		col.New(5).Add(
			text.New(strings.ToUpper(doc.Title), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(inv.Number, blank), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Date: "+inv.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Payment: "+nonEmpty(string(inv.PaymentStatus), blank), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

func sellerRow(s appbilling.Seller) (core.Row, bool) {
	if s.Address == "" && s.Phone == "" {
		return nil, false
	}
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Address: %s   |   Phone: %s",
				nonEmpty(s.Address, blank), nonEmpty(s.Phone, blank),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	), true
}

func customerRow(doc *appbilling.InvoiceDocument) core.Row {
	c := doc.Customer
	return row.New(20).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(c.Name, blank), props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New(fmt.Sprintf("Contact: %s   |   Email: %s",
				nonEmpty(c.ContactNo, blank), nonEmpty(c.Email, blank),
			), props.Text{Size: 8, Top: 10, Color: colorGray}),
			text.New(fmt.Sprintf("Address: %s   |   GSTIN: %s",
				nonEmpty(c.Address, blank), nonEmpty(c.GSTIN, blank),
			), props.Text{Size: 8, Top: 14, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Product", 3, align.Left),
		h("HSN/SAC", 1, align.Center),
		h("Qty", 1, align.Center),
		h("Unit price", 2, align.Right),
		h("GST%", 1, align.Center),
		h("Tax", 1, align.Right),
		h("Total", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableLineRows(lines []appbilling.DocumentLine, f *formatter) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			cell(fmt.Sprintf("%d", l.Position), 1, align.Center),
			cell(nonEmpty(l.ProductName, blank), 3, align.Left),
			cell(nonEmpty(l.HSNSAC, blank), 1, align.Center),
			cell(fmt.Sprintf("%d", l.Quantity), 1, align.Center),
			cell(f.money(l.UnitPrice), 2, align.Right),
			cell(formatRate(l.GSTRate), 1, align.Center),
			cell(f.amount(l.LineTax), 1, align.Right),
			cell(f.money(l.LineTotal), 2, align.Right),
		))
	}
	return result
}

func totalsRow(doc *appbilling.InvoiceDocument, f *formatter) core.Row {
	inv := doc.Invoice
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("GST:", 6),
			text.New("GRAND TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 12,
			}),
		),
		col.New(3).Add(
			value(f.money(inv.SubtotalBeforeTax), 1),
			value(f.money(inv.TotalTax), 6),
			text.New(f.money(inv.GrandTotal), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 12,
			}),
		),
	)
}

func rateSummaryRows(doc *appbilling.InvoiceDocument, f *formatter) []core.Row {
	if len(doc.ByRate) == 0 {
		return nil
	}
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("GST SUMMARY", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}
	for _, s := range doc.ByRate {
		rows = append(rows, row.New(5).Add(
			col.New(4).Add(text.New("GST "+formatRate(s.Rate), props.Text{Size: 8, Left: 2})),
			col.New(4).Add(text.New("Taxable: "+f.money(s.Taxable), props.Text{Size: 8, Align: align.Right})),
			col.New(4).Add(text.New("Tax: "+f.money(s.Tax), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

func notesRows(notes string) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("NOTES", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		)),
	}
	for _, chunk := range splitEvery(notes, 110) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 8, Color: colorGray, Left: 2}),
		)))
	}
	return rows
}

func footerRow(doc *appbilling.InvoiceDocument) core.Row {
	return row.New(36).Add(
		col.New(3).Add(code.NewQr(qrPayload(doc), props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("This is a computer generated invoice.", props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Amounts are rounded to two decimals for display only.", props.Text{Size: 7, Top: 9, Left: 3, Color: colorGray}),
		),
	)
}

// qrPayload: number|date|grand total|seller GSTIN|customer GSTIN.
func qrPayload(doc *appbilling.InvoiceDocument) string {
	customerGSTIN := ""
	if doc.Customer != nil {
		customerGSTIN = doc.Customer.GSTIN
	}
	return strings.Join([]string{
		doc.Invoice.Number,
		doc.Invoice.Date.Format("2006-01-02"),
		doc.Invoice.GrandTotal.StringFixed(2),
		doc.Seller.GSTIN,
		customerGSTIN,
	}, "|")
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatter renders money with two decimals and digits grouped in threes.
type formatter struct {
	currency string
}

func newFormatter(currency string) *formatter {
	return &formatter{currency: strings.TrimSpace(currency)}
}

// amount rounds half away from zero to two places, then groups digits.
func (f *formatter) amount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

func (f *formatter) money(d decimal.Decimal) string {
	if f.currency == "" {
		return f.amount(d)
	}
	return f.currency + " " + f.amount(d)
}

func formatRate(rate decimal.Decimal) string {
	return rate.String() + "%"
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// splitEvery splits s into chunks of at most n runes.
func splitEvery(s string, n int) []string {
	runes := []rune(s)
	var parts []string
	for len(runes) > n {
		parts = append(parts, string(runes[:n]))
		runes = runes[n:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
