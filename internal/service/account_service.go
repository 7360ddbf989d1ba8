package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/booking-gateway/internal/auth"
	"github.com/spec-kit/booking-gateway/internal/upstream"
	apperrors "github.com/spec-kit/booking-gateway/pkg/util"
)

// AccountAPI is the slice of the upstream client used for account management.
type AccountAPI interface {
	CreateAccount(ctx context.Context, req upstream.CreateAccountRequest) (*upstream.AccountAck, error)
	UpdateAccount(ctx context.Context, s upstream.Session, userID string, req upstream.UpdateAccountRequest) (*upstream.AccountAck, error)
	UpdatePassword(ctx context.Context, s upstream.Session, userID string, req upstream.UpdatePasswordRequest) (*upstream.AccountAck, error)
	GetAccount(ctx context.Context, s upstream.Session, userID string) (*upstream.Account, error)
}

// AccountInput is the gateway-side account creation/update payload.
type AccountInput struct {
	FirstName            string
	LastName             string
	EmailAddress         string
	UserName             string
	Language             string
	Timezone             string
	Phone                string
	Organization         string
	Position             string
	Password             string
	AcceptTermsOfService bool
}

// AccountService proxies account management to the upstream. Creation is
// public; everything else rides on the caller's embedded session.
type AccountService struct {
	api    AccountAPI
	now    func() time.Time
	logger *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(api AccountAPI, logger *zap.Logger, now func() time.Time) *AccountService {
	if now == nil {
		now = time.Now
	}
	return &AccountService{api: api, now: now, logger: logger}
}

// Create registers a new upstream account. No authentication is required.
func (s *AccountService) Create(ctx context.Context, input AccountInput) (*upstream.AccountAck, error) {
	req := upstream.CreateAccountRequest{
		FirstName:            input.FirstName,
		LastName:             input.LastName,
		EmailAddress:         input.EmailAddress,
		UserName:             input.UserName,
		Language:             defaultString(input.Language, "it_it"),
		Timezone:             defaultString(input.Timezone, "Europe/Rome"),
		Phone:                input.Phone,
		Organization:         input.Organization,
		Position:             input.Position,
		CustomAttributes:     []string{},
		Password:             input.Password,
		AcceptTermsOfService: input.AcceptTermsOfService,
	}

	ack, err := s.api.CreateAccount(ctx, req)
	if err != nil {
		return nil, mapBookingError(err)
	}
	s.logger.Info("account created", zap.String("username", input.UserName))
	return ack, nil
}

// Update changes the caller's own account profile.
func (s *AccountService) Update(ctx context.Context, claims *auth.Claims, input AccountInput) (*upstream.AccountAck, error) {
	if !claims.UpstreamSessionValid(s.now()) {
		return nil, apperrors.NewSessionExpired()
	}

	req := upstream.UpdateAccountRequest{
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		EmailAddress:     input.EmailAddress,
		UserName:         input.UserName,
		Language:         defaultString(input.Language, "it_it"),
		Timezone:         defaultString(input.Timezone, "Europe/Rome"),
		Phone:            input.Phone,
		Organization:     input.Organization,
		Position:         input.Position,
		CustomAttributes: []string{},
	}

	ack, err := s.api.UpdateAccount(ctx, claims.UpstreamSession(), strconv.Itoa(claims.UserID), req)
	if err != nil {
		return nil, mapBookingError(err)
	}
	s.logger.Info("account updated", zap.Int("user_id", claims.UserID))
	return ack, nil
}

// ChangePassword updates the caller's upstream password.
func (s *AccountService) ChangePassword(ctx context.Context, claims *auth.Claims, currentPassword, newPassword string) (*upstream.AccountAck, error) {
	if !claims.UpstreamSessionValid(s.now()) {
		return nil, apperrors.NewSessionExpired()
	}

	ack, err := s.api.UpdatePassword(ctx, claims.UpstreamSession(), strconv.Itoa(claims.UserID), upstream.UpdatePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	})
	if err != nil {
		return nil, mapBookingError(err)
	}
	s.logger.Info("password updated", zap.Int("user_id", claims.UserID))
	return ack, nil
}

// Get fetches the caller's account profile from the upstream.
func (s *AccountService) Get(ctx context.Context, claims *auth.Claims) (*upstream.Account, error) {
	if !claims.UpstreamSessionValid(s.now()) {
		return nil, apperrors.NewSessionExpired()
	}

	account, err := s.api.GetAccount(ctx, claims.UpstreamSession(), strconv.Itoa(claims.UserID))
	if err != nil {
		return nil, mapBookingError(err)
	}
	return account, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
