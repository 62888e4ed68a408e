package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanket93s/gst-billing-system/internal/application/analytics"
	"github.com/Sanket93s/gst-billing-system/internal/application/billing"
	"github.com/Sanket93s/gst-billing-system/internal/application/dto"
	"github.com/Sanket93s/gst-billing-system/internal/application/usecase"
	"github.com/Sanket93s/gst-billing-system/internal/infrastructure/memory"
	infrapdf "github.com/Sanket93s/gst-billing-system/internal/infrastructure/pdf"
	apphttp "github.com/Sanket93s/gst-billing-system/internal/interfaces/http"
	"github.com/Sanket93s/gst-billing-system/pkg/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	s := memory.NewStore()
	log := logger.Nop()
	now := func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Use(apphttp.RequestID())
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		ServiceName: "gst-billing-test",
		InvoiceUC:   billing.NewInvoiceUseCase(s).WithClock(now),
		PDFUC: billing.NewPDFUseCase(s, infrapdf.NewMarotoPDFGenerator(),
			billing.DocumentOptions{Currency: "Rs.", Seller: billing.Seller{Name: "Sanket Enterprises", GSTIN: "27AAPFU0939F1ZV"}}),
		CustomerUC: billing.NewCustomerUseCase(s.Customers()),
		ProductUC:  usecase.NewProductUseCase(s.Products()),
		ReportUC:   analytics.NewSalesReportUseCase(s),
		Log:        log,
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

type seeded struct {
	customerID string
	widgetID   string
	gadgetID   string
}

func seed(t *testing.T, app *fiber.App) seeded {
	t.Helper()
	resp := do(t, app, fiber.MethodPost, "/api/customers", dto.CustomerRequest{
		Name: "Acme Traders", ContactNo: "9800000000", GSTIN: "27aapfu0939f1zv",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	customer := decode[dto.CustomerResponse](t, resp)
	assert.Equal(t, "27AAPFU0939F1ZV", customer.GSTIN)

	resp = do(t, app, fiber.MethodPost, "/api/products", map[string]any{
		"name": "Widget", "hsn_sac": "8471", "unit_price": "100.00", "gst_rate": 18,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	widget := decode[dto.ProductResponse](t, resp)

	resp = do(t, app, fiber.MethodPost, "/api/products", map[string]any{
		"name": "Gadget", "hsn_sac": "9983", "unit_price": 40, "gst_rate": "5",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	gadget := decode[dto.ProductResponse](t, resp)

	return seeded{customerID: customer.ID, widgetID: widget.ID, gadgetID: gadget.ID}
}

func (s seeded) draft(number string, items ...dto.InvoiceItemRequest) dto.InvoiceRequest {
	return dto.InvoiceRequest{Number: number, Date: "2024-03-05", CustomerID: s.customerID, Items: items}
}

func item(productID string, qty int) dto.InvoiceItemRequest {
	return dto.InvoiceItemRequest{ProductID: productID, Quantity: qty}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp := do(t, app, fiber.MethodGet, "/health", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "gst-billing-test", body["service"])
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestInvoiceLifecycle(t *testing.T) {
	app := newTestApp(t)
	s := seed(t, app)

	resp := do(t, app, fiber.MethodPost, "/api/invoices", s.draft("INV-001", item(s.widgetID, 2), item(s.widgetID, 2)))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, `"1"`, resp.Header.Get(fiber.HeaderETag))
	created := decode[dto.InvoiceResponse](t, resp)
	assert.True(t, created.SubtotalBeforeTax.Equal(decimal.NewFromInt(400)))
	assert.True(t, created.TotalTax.Equal(decimal.NewFromInt(72)))
	assert.True(t, created.GrandTotal.Equal(decimal.NewFromInt(472)))
	assert.Equal(t, "Pending", created.PaymentStatus)
	assert.Equal(t, "2024-03-05", created.Date)
	require.NotNil(t, created.Customer)
	assert.Equal(t, "Acme Traders", created.Customer.Name)

	resp = do(t, app, fiber.MethodGet, "/api/invoices/"+created.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, `"1"`, resp.Header.Get(fiber.HeaderETag))

	update := s.draft("INV-001", item(s.gadgetID, 3))
	update.PaymentStatus = "Paid"
	resp = do(t, app, fiber.MethodPut, "/api/invoices/"+created.ID, update, fiber.HeaderIfMatch, `"1"`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, "Paid", updated.PaymentStatus)
	require.Len(t, updated.Items, 1)
	assert.True(t, updated.GrandTotal.Equal(decimal.NewFromInt(126)))

	// stale If-Match
	resp = do(t, app, fiber.MethodPut, "/api/invoices/"+created.ID, update, fiber.HeaderIfMatch, `"1"`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, fiber.MethodGet, "/api/invoices", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.InvoiceResponse](t, resp), 1)

	resp = do(t, app, fiber.MethodDelete, "/api/invoices/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = do(t, app, fiber.MethodGet, "/api/invoices/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateInvoice_BodyVersionAndIfMatchPrecedence(t *testing.T) {
	app := newTestApp(t)
	s := seed(t, app)
	resp := do(t, app, fiber.MethodPost, "/api/invoices", s.draft("INV-010", item(s.widgetID, 1)))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[dto.InvoiceResponse](t, resp)

	stale := 7
	update := s.draft("INV-010", item(s.widgetID, 5))
	update.Version = &stale
	resp = do(t, app, fiber.MethodPut, "/api/invoices/"+created.ID, update)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// header wins over the stale body version
	resp = do(t, app, fiber.MethodPut, "/api/invoices/"+created.ID, update, fiber.HeaderIfMatch, `W/"1"`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = do(t, app, fiber.MethodPut, "/api/invoices/"+created.ID, update, fiber.HeaderIfMatch, "latest")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestInvoiceErrors(t *testing.T) {
	app := newTestApp(t)
	s := seed(t, app)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"empty line set", fiber.MethodPost, "/api/invoices", s.draft("E-1"), 400, "EMPTY_INVOICE"},
		{"zero quantity", fiber.MethodPost, "/api/invoices", s.draft("E-2", item(s.widgetID, 0)), 400, "INVALID_QUANTITY"},
		{"quantity above int4 range", fiber.MethodPost, "/api/invoices",
			`{"invoice_number":"E-7","customer_id":"` + s.customerID + `","items":[{"product_id":"` + s.widgetID + `","quantity":2147483648}]}`, 400, "INVALID_QUANTITY"},
		{"unknown customer", fiber.MethodPost, "/api/invoices",
			dto.InvoiceRequest{Number: "E-3", CustomerID: uuid.NewString(), Items: []dto.InvoiceItemRequest{item(s.widgetID, 1)}}, 404, "NOT_FOUND"},
		{"malformed customer id", fiber.MethodPost, "/api/invoices",
			dto.InvoiceRequest{Number: "E-4", CustomerID: "42", Items: []dto.InvoiceItemRequest{item(s.widgetID, 1)}}, 400, "BAD_REFERENCE"},
		{"unknown product", fiber.MethodPost, "/api/invoices", s.draft("E-5", item(uuid.NewString(), 1)), 404, "NOT_FOUND"},
		{"bad date", fiber.MethodPost, "/api/invoices",
			dto.InvoiceRequest{Number: "E-6", Date: "05/03/2024", CustomerID: s.customerID, Items: []dto.InvoiceItemRequest{item(s.widgetID, 1)}}, 400, "BAD_REFERENCE"},
		{"invalid json", fiber.MethodPost, "/api/invoices", `{"invoice_number":`, 400, "INVALID_BODY"},
		{"unknown invoice", fiber.MethodGet, "/api/invoices/" + uuid.NewString(), nil, 404, "NOT_FOUND"},
		{"malformed invoice id", fiber.MethodGet, "/api/invoices/abc", nil, 404, "NOT_FOUND"},
		{"pdf of unknown invoice", fiber.MethodGet, "/api/invoices/" + uuid.NewString() + "/pdf", nil, 404, "NOT_FOUND"},
		{"unknown route", fiber.MethodGet, "/api/nothing", nil, 404, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}

	resp := do(t, app, fiber.MethodGet, "/api/invoices", nil)
	assert.Empty(t, decode[[]dto.InvoiceResponse](t, resp))
}

func TestCreateInvoice_ValidationDetails(t *testing.T) {
	app := newTestApp(t)
	s := seed(t, app)
	in := s.draft("V-1", item(s.widgetID, 1))
	in.PaymentStatus = "Overdue"

	resp := do(t, app, fiber.MethodPost, "/api/invoices", in)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "payment_status", body.Details[0].Field)
}

func TestCreateInvoice_DuplicateNumber(t *testing.T) {
	app := newTestApp(t)
	s := seed(t, app)
	resp := do(t, app, fiber.MethodPost, "/api/invoices", s.draft("DUP-1", item(s.widgetID, 1)))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = do(t, app, fiber.MethodPost, "/api/invoices", s.draft("DUP-1", item(s.gadgetID, 1)))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestUpdateInvoice_UnknownProductIsBadRequest(t *testing.T) {
	app := newTestApp(t)
	s := seed(t, app)
	resp := do(t, app, fiber.MethodPost, "/api/invoices", s.draft("U-1", item(s.widgetID, 1)))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[dto.InvoiceResponse](t, resp)

	resp = do(t, app, fiber.MethodPut, "/api/invoices/"+created.ID, s.draft("U-1", item(uuid.NewString(), 1)))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "BAD_REFERENCE", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, fiber.MethodPut, "/api/invoices/"+uuid.NewString(), s.draft("U-1", item(s.widgetID, 1)))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDownloadPDF(t *testing.T) {
	app := newTestApp(t)
	s := seed(t, app)
	resp := do(t, app, fiber.MethodPost, "/api/invoices", s.draft("INV-001", item(s.widgetID, 2), item(s.gadgetID, 1)))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[dto.InvoiceResponse](t, resp)

	resp = do(t, app, fiber.MethodGet, "/api/invoices/"+created.ID+"/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename="invoice_INV-001.pdf"`, resp.Header.Get(fiber.HeaderContentDisposition))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestSalesReport(t *testing.T) {
	app := newTestApp(t)
	s := seed(t, app)
	for _, d := range []dto.InvoiceRequest{
		s.draft("R-1", item(s.widgetID, 4)),
		s.draft("R-2", item(s.gadgetID, 1)),
	} {
		resp := do(t, app, fiber.MethodPost, "/api/invoices", d)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp := do(t, app, fiber.MethodGet, "/api/reports/sales?from=2024-03-01&to=2024-03-31", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	march := decode[dto.SalesReportResponse](t, resp)
	assert.Equal(t, 2, march.Count)
	assert.True(t, march.GrandTotalSum.Equal(decimal.NewFromInt(514)))
	assert.True(t, march.TaxSum.Equal(decimal.NewFromInt(74)))
	assert.Len(t, march.Invoices, 2)

	resp = do(t, app, fiber.MethodGet, "/api/reports/sales?from=2024-04-01&to=2024-04-30", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	april := decode[dto.SalesReportResponse](t, resp)
	assert.Zero(t, april.Count)
	assert.True(t, april.GrandTotalSum.IsZero())

	for _, q := range []string{"?from=2024-03-31&to=2024-03-01", "?to=2024-03-01", "?from=march&to=2024-03-31"} {
		resp = do(t, app, fiber.MethodGet, "/api/reports/sales"+q, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
		assert.Equal(t, "INVALID_RANGE", decode[dto.ErrorResponse](t, resp).Code, q)
	}
}

func TestCustomerAndProductCRUD(t *testing.T) {
	app := newTestApp(t)
	s := seed(t, app)

	resp := do(t, app, fiber.MethodPost, "/api/customers", dto.CustomerRequest{Name: "Acme Traders"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = do(t, app, fiber.MethodPost, "/api/customers", dto.CustomerRequest{Name: ""})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, fiber.MethodPut, "/api/customers/"+s.customerID, dto.CustomerRequest{Name: "Acme Traders Pvt Ltd", Address: "Pune"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Pune", decode[dto.CustomerResponse](t, resp).Address)

	resp = do(t, app, fiber.MethodGet, "/api/customers?limit=1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.CustomerResponse](t, resp), 1)

	resp = do(t, app, fiber.MethodGet, "/api/products?limit=abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, fiber.MethodGet, "/api/products", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.ProductResponse](t, resp), 2)

	resp = do(t, app, fiber.MethodPost, "/api/products", map[string]any{
		"name": "Overtaxed", "hsn_sac": "1000", "unit_price": "1", "gst_rate": "140",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// referenced rows cannot be deleted
	resp = do(t, app, fiber.MethodPost, "/api/invoices", s.draft("C-1", item(s.widgetID, 1)))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = do(t, app, fiber.MethodDelete, "/api/customers/"+s.customerID, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp = do(t, app, fiber.MethodDelete, "/api/products/"+s.widgetID, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = do(t, app, fiber.MethodDelete, "/api/products/"+s.gadgetID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = do(t, app, fiber.MethodGet, "/api/products/"+s.gadgetID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
