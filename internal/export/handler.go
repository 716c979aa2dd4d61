package export

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultDays = 30
	maxDays     = 365
	xlsxMIME    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// GET /api/admin/analytics/export?days=30
func (h *Handler) Analytics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := defaultDays
		if raw := c.Query("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxDays {
				return fiber.NewError(fiber.StatusBadRequest, "days must be between 1 and 365")
			}
			days = n
		}

		data, err := h.Service.AnalyticsXLSX(c.UserContext(), days)
		if err != nil {
			h.Service.Log.Error("analytics export failed", zap.Int("days", days), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "could not build export")
		}

		name := fmt.Sprintf("replate-analytics-%s-%dd.xlsx", h.Service.Now().UTC().Format("20060102"), days)
		c.Set(fiber.HeaderContentType, xlsxMIME)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
		return c.Send(data)
	}
}
