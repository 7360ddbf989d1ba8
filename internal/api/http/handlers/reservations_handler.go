package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-gateway/internal/api/dto"
	"github.com/spec-kit/booking-gateway/internal/auth"
	"github.com/spec-kit/booking-gateway/internal/service"
	apperrors "github.com/spec-kit/booking-gateway/pkg/util"
)

// ReservationsHandler manages the caller's own reservations.
type ReservationsHandler struct {
	service *service.ReservationService
	loc     *time.Location
}

// NewReservationsHandler constructs handler. Request timestamps carry no
// offset and are interpreted in loc.
func NewReservationsHandler(reservationService *service.ReservationService, loc *time.Location) *ReservationsHandler {
	return &ReservationsHandler{service: reservationService, loc: loc}
}

// Create POST /reservations.
func (h *ReservationsHandler) Create(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	input, err := h.parseInput(c)
	if err != nil {
		return err
	}

	result, err := h.service.Create(c.UserContext(), claims, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": result})
}

// Update POST /reservations/:referenceNumber.
func (h *ReservationsHandler) Update(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	referenceNumber := strings.TrimSpace(c.Params("referenceNumber"))
	if referenceNumber == "" {
		return apperrors.NewValidationError("reference number required", nil)
	}
	input, err := h.parseInput(c)
	if err != nil {
		return err
	}

	result, err := h.service.Update(c.UserContext(), claims, referenceNumber, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Delete DELETE /reservations/:referenceNumber.
func (h *ReservationsHandler) Delete(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	referenceNumber := strings.TrimSpace(c.Params("referenceNumber"))
	if referenceNumber == "" {
		return apperrors.NewValidationError("reference number required", nil)
	}

	ack, err := h.service.Delete(c.UserContext(), claims, referenceNumber)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ack})
}

// ListMine GET /reservations/mine.
func (h *ReservationsHandler) ListMine(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}

	list, err := h.service.ListForUser(c.UserContext(), claims)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

func (h *ReservationsHandler) parseInput(c *fiber.Ctx) (service.ReservationInput, error) {
	var req dto.CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return service.ReservationInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ResourceID <= 0 || req.StartDateTime == "" || req.EndDateTime == "" {
		return service.ReservationInput{}, apperrors.NewValidationError("resource_id, start_date_time, end_date_time required", nil)
	}
	input, err := req.ToInput(h.loc)
	if err != nil {
		return service.ReservationInput{}, apperrors.NewValidationError(err.Error(), nil)
	}
	return input, nil
}
