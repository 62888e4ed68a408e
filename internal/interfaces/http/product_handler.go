package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Sanket93s/gst-billing-system/internal/application/dto"
	"github.com/Sanket93s/gst-billing-system/internal/application/usecase"
)

// ProductHandler serves /api/products.
type ProductHandler struct {
	uc   *usecase.ProductUseCase
	errs errorResponder
}

// NewProductHandler builds the handler.
func NewProductHandler(uc *usecase.ProductUseCase, errs errorResponder) *ProductHandler {
	return &ProductHandler{uc: uc, errs: errs}
}

// Create godoc
// @Summary      Create product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ProductRequest  true  "Product"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := bindJSON(c, &in); err != nil {
		return h.errs.respond(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        limit   query     int  false  "Page size (default 100)"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {array}   dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, err := bindPage(c)
	if err != nil {
		return h.errs.respond(c, err)
	}
	list, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Update product
// @Description  Existing invoice lines keep the price and rate they were billed at.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Product ID"
// @Param        body  body      dto.ProductRequest  true  "Product"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := bindJSON(c, &in); err != nil {
		return h.errs.respond(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Delete product
// @Tags         products
// @Param        id   path  string  true  "Product ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
