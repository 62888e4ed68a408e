package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Sanket93s/gst-billing-system/internal/application/analytics"
	"github.com/Sanket93s/gst-billing-system/internal/application/billing"
	"github.com/Sanket93s/gst-billing-system/internal/application/usecase"
	"github.com/Sanket93s/gst-billing-system/pkg/logger"
)

// RouterDeps are the use cases behind the API.
type RouterDeps struct {
	ServiceName string
	InvoiceUC   *billing.InvoiceUseCase
	PDFUC       *billing.PDFUseCase
	CustomerUC  *billing.CustomerUseCase
	ProductUC   *usecase.ProductUseCase
	ReportUC    *analytics.SalesReportUseCase
	Log         *logger.Logger
}

// Router registers /health and the /api routes.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	errs := errorResponder{log: log}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC, errs)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, errs)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, errs)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC, errs)
	reports.Get("/sales", reportHandler.Sales)
}
