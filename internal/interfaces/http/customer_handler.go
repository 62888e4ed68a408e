package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Sanket93s/gst-billing-system/internal/application/billing"
	"github.com/Sanket93s/gst-billing-system/internal/application/dto"
)

// CustomerHandler serves /api/customers.
type CustomerHandler struct {
	uc   *billing.CustomerUseCase
	errs errorResponder
}

// NewCustomerHandler builds the handler.
func NewCustomerHandler(uc *billing.CustomerUseCase, errs errorResponder) *CustomerHandler {
	return &CustomerHandler{uc: uc, errs: errs}
}

// Create godoc
// @Summary      Create customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CustomerRequest  true  "Customer"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CustomerRequest
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
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        limit   query     int  false  "Page size (default 100)"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {array}   dto.CustomerResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
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
// @Summary      Get customer
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Update customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Customer ID"
// @Param        body  body      dto.CustomerRequest  true  "Customer"
// @Success      200   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.CustomerRequest
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
// @Summary      Delete customer
// @Description  Fails with 409 while any invoice references the customer.
// @Tags         customers
// @Param        id   path  string  true  "Customer ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
