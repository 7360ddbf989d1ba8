package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-gateway/internal/api/dto"
	"github.com/spec-kit/booking-gateway/internal/auth"
	"github.com/spec-kit/booking-gateway/internal/service"
	apperrors "github.com/spec-kit/booking-gateway/pkg/util"
)

// AccountsHandler manages account registration and profile endpoints.
type AccountsHandler struct {
	service *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{service: accountService}
}

// Register POST /accounts.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.UserName) == "" || strings.TrimSpace(req.EmailAddress) == "" || req.Password == "" {
		return apperrors.NewValidationError("user_name, email_address, password required", nil)
	}
	if !req.AcceptTermsOfService {
		return apperrors.NewValidationError("terms of service must be accepted", nil)
	}

	ack, err := h.service.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ack})
}

// Get GET /accounts/me.
func (h *AccountsHandler) Get(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	account, err := h.service.Get(c.UserContext(), claims)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": account})
}

// Update PUT /accounts/me.
func (h *AccountsHandler) Update(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.UserName) == "" || strings.TrimSpace(req.EmailAddress) == "" {
		return apperrors.NewValidationError("user_name and email_address required", nil)
	}

	ack, err := h.service.Update(c.UserContext(), claims, req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ack})
}

// ChangePassword PUT /accounts/me/password.
func (h *AccountsHandler) ChangePassword(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current_password and new_password required", nil)
	}

	ack, err := h.service.ChangePassword(c.UserContext(), claims, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ack})
}
