package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Sanket93s/gst-billing-system/internal/application/dto"
	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/pkg/logger"
)

var errInvalidBody = errors.New("request body is not valid JSON")

type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: the typed not-found errors also match ErrNotFound.
var errorMappings = []errorMapping{
	{domain.ErrBadReference, fiber.StatusBadRequest, "BAD_REFERENCE"},
	{domain.ErrEmptyInvoice, fiber.StatusBadRequest, "EMPTY_INVOICE"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInvalidRange, fiber.StatusBadRequest, "INVALID_RANGE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrRenderIO, fiber.StatusInternalServerError, "RENDER_IO"},
}

// errorResponder turns use case errors into ErrorResponse bodies.
type errorResponder struct {
	log *logger.Logger
}

func (r errorResponder) respond(c *fiber.Ctx, err error) error {
	status, body := r.classify(err)
	if status >= fiber.StatusInternalServerError {
		r.log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("request_id", requestID(c)).
			Msg("request failed")
	}
	return c.Status(status).JSON(body)
}

func (r errorResponder) classify(err error) (int, dto.ErrorResponse) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "request validation failed",
			Details: fieldDetails(verrs),
		}
	}
	if errors.Is(err, errInvalidBody) {
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, dto.ErrorResponse{Code: fiberCode(fe.Code), Message: fe.Message}
	}
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := err.Error()
		if m.status >= fiber.StatusInternalServerError {
			msg = m.target.Error()
		}
		return m.status, dto.ErrorResponse{Code: m.code, Message: msg}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "internal server error"}
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	if status < fiber.StatusInternalServerError {
		return "BAD_REQUEST"
	}
	return "INTERNAL"
}

// ErrorHandler is the fiber.Config ErrorHandler: it renders errors that
// escape handlers (unknown routes, panics caught by recover) as ErrorResponse.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	r := errorResponder{log: log}
	return func(c *fiber.Ctx, err error) error {
		return r.respond(c, err)
	}
}
