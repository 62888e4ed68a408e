package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Sanket93s/gst-billing-system/internal/application/analytics"
	"github.com/Sanket93s/gst-billing-system/internal/application/dto"
	"github.com/Sanket93s/gst-billing-system/internal/domain"
)

// ReportHandler serves /api/reports.
type ReportHandler struct {
	uc   *analytics.SalesReportUseCase
	errs errorResponder
}

// NewReportHandler builds the handler.
func NewReportHandler(uc *analytics.SalesReportUseCase, errs errorResponder) *ReportHandler {
	return &ReportHandler{uc: uc, errs: errs}
}

// Sales godoc
// @Summary      Sales report
// @Description  Count and totals of invoices dated within [from, to], both inclusive.
// @Tags         reports
// @Produce      json
// @Param        from  query     string  true  "First date (YYYY-MM-DD)"
// @Param        to    query     string  true  "Last date (YYYY-MM-DD)"
// @Success      200   {object}  dto.SalesReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	from, err := queryDate(c, "from")
	if err != nil {
		return h.errs.respond(c, err)
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return h.errs.respond(c, err)
	}
	out, err := h.uc.Sales(c.UserContext(), from, to)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

func queryDate(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%s is required: %w", name, domain.ErrInvalidRange)
	}
	t, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s %q is not a YYYY-MM-DD date: %w", name, raw, domain.ErrInvalidRange)
	}
	return t, nil
}
