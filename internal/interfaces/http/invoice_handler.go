package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Sanket93s/gst-billing-system/internal/application/billing"
	"github.com/Sanket93s/gst-billing-system/internal/application/dto"
	"github.com/Sanket93s/gst-billing-system/internal/domain"
)

// InvoiceHandler serves /api/invoices.
type InvoiceHandler struct {
	uc   *billing.InvoiceUseCase
	pdf  *billing.PDFUseCase
	errs errorResponder
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdf *billing.PDFUseCase, errs errorResponder) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdf: pdf, errs: errs}
}

// Create godoc
// @Summary      Create invoice
// @Description  Prices and GST rates are copied from the products at billing time.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body      dto.InvoiceRequest  true  "Invoice draft"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := bindJSON(c, &in); err != nil {
		return h.errs.respond(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	setETag(c, out.Version)
	c.Location("/api/invoices/" + out.ID)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      List invoices
// @Description  Newest invoice date first.
// @Tags         invoices
// @Produce      json
// @Success      200  {array}   dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  dto.InvoiceResponse
// @Header       200  {string}  ETag  "invoice version"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	setETag(c, out.Version)
	return c.JSON(out)
}

// Update godoc
// @Summary      Replace invoice
// @Description  Replaces the header and the whole line set. The expected version
// @Description  comes from If-Match or, when absent, from the body.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id        path      string              true   "Invoice ID"
// @Param        If-Match  header    string              false  "Expected version"
// @Param        body      body      dto.InvoiceRequest  true   "Invoice draft"
// @Success      200       {object}  dto.InvoiceResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Failure      409       {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := bindJSON(c, &in); err != nil {
		return h.errs.respond(c, err)
	}
	expected := in.Version
	if raw := c.Get(fiber.HeaderIfMatch); raw != "" {
		v, err := parseIfMatch(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		expected = &v
	}

	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in, expected)
	if err != nil {
		// the path names the invoice; an unknown product is a bad body reference
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "BAD_REFERENCE", Message: err.Error()})
		}
		return h.errs.respond(c, err)
	}
	setETag(c, out.Version)
	return c.JSON(out)
}

// Delete godoc
// @Summary      Delete invoice
// @Description  Removes the invoice together with its lines.
// @Tags         invoices
// @Param        id   path  string  true  "Invoice ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF godoc
// @Summary      Download invoice PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	body, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}

func setETag(c *fiber.Ctx, version int) {
	c.Set(fiber.HeaderETag, strconv.Quote(strconv.Itoa(version)))
}

// parseIfMatch accepts 3, "3" and W/"3".
func parseIfMatch(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "W/")
	s = strings.Trim(s, `"`)
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("If-Match must carry a positive invoice version, got %q", raw)
	}
	return v, nil
}
