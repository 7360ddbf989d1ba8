package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-gateway/internal/service"
	apperrors "github.com/spec-kit/booking-gateway/pkg/util"
)

// ScheduleHandler exposes the published training schedule.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: scheduleService}
}

// GetWeek GET /schedule/week.
func (h *ScheduleHandler) GetWeek(c *fiber.Ctx) error {
	slots, err := h.service.ListWeek(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": slots})
}

// GetWeekForResource GET /schedule/week/:resource.
func (h *ScheduleHandler) GetWeekForResource(c *fiber.Ctx) error {
	resource := strings.TrimSpace(c.Params("resource"))
	if resource == "" {
		return apperrors.NewValidationError("resource required", nil)
	}
	slots, err := h.service.ListWeekForResource(c.UserContext(), resource)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": slots})
}

// GetUpcoming GET /schedule/upcoming.
func (h *ScheduleHandler) GetUpcoming(c *fiber.Ctx) error {
	slots, err := h.service.ListUpcoming(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": slots})
}

// Refresh POST /schedule/refresh.
func (h *ScheduleHandler) Refresh(c *fiber.Ctx) error {
	slots, err := h.service.Refresh(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": slots})
}
