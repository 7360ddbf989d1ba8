package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-gateway/internal/auth"
	"github.com/spec-kit/booking-gateway/internal/service"
	apperrors "github.com/spec-kit/booking-gateway/pkg/util"
)

// DashboardHandler serves booking statistics for the caller.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// Stats GET /dashboard/stats?period=week|month|year|all.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}

	period := c.Query("period", "all")
	switch period {
	case "week", "month", "year", "all":
	default:
		return apperrors.NewValidationError("period must be one of week, month, year, all", nil)
	}

	stats, err := h.service.Stats(c.UserContext(), claims, period)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
