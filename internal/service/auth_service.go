package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/booking-gateway/internal/auth"
	"github.com/spec-kit/booking-gateway/internal/config"
	"github.com/spec-kit/booking-gateway/internal/upstream"
	apperrors "github.com/spec-kit/booking-gateway/pkg/util"
)

// AuthAPI is the slice of the upstream client the login flow needs.
type AuthAPI interface {
	Authenticate(ctx context.Context, username, password string) (*upstream.AuthResponse, error)
	GetAccount(ctx context.Context, s upstream.Session, userID string) (*upstream.Account, error)
}

// UserInfo is the profile shape returned to the frontend.
type UserInfo struct {
	UserID       int    `json:"user_id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	EmailAddress string `json:"email_address,omitempty"`
	Language     string `json:"language,omitempty"`
	Timezone     string `json:"timezone,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Organization string `json:"organization,omitempty"`
	Position     string `json:"position,omitempty"`
}

// LoginResult carries the issued outer credential and profile.
type LoginResult struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserInfo `json:"user"`
}

// CurrentUser describes the caller's authentication state.
type CurrentUser struct {
	Authenticated  bool     `json:"authenticated"`
	User           UserInfo `json:"user,omitempty"`
	TokenExpiresIn int64    `json:"token_expires_in,omitempty"`
}

// AuthService logs users in against the upstream with their own credentials
// and issues the outer JWT embedding the resulting upstream session.
type AuthService struct {
	api    AuthAPI
	tokens *auth.TokenManager
	margin time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, api AuthAPI, tokens *auth.TokenManager, logger *zap.Logger, now func() time.Time) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{api: api, tokens: tokens, margin: cfg.SessionMargin(), now: now, logger: logger}
}

// Login authenticates the user upstream with their own credentials. The
// resulting session rides inside the issued JWT; it is never cached by the
// gateway and never auto-refreshed.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	authResp, err := s.api.Authenticate(ctx, username, password)
	if err != nil {
		return nil, mapAuthError(err)
	}

	account, err := s.api.GetAccount(ctx, upstream.Session{Token: authResp.SessionToken, UserID: authResp.UserID}, authResp.UserID)
	if err != nil {
		return nil, mapAuthError(err)
	}

	claims := &auth.Claims{
		UserID:         account.UserID,
		Username:       account.UserName,
		FirstName:      account.FirstName,
		LastName:       account.LastName,
		SessionToken:   authResp.SessionToken,
		UpstreamUserID: authResp.UserID,
		SessionExpiry:  s.sessionExpiryMillis(authResp.SessionExpires),
	}

	token, expiresAt, err := s.tokens.GenerateToken(claims)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("user logged in", zap.String("username", account.UserName))
	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		User: UserInfo{
			UserID:       account.UserID,
			Username:     account.UserName,
			FirstName:    account.FirstName,
			LastName:     account.LastName,
			EmailAddress: account.EmailAddress,
			Language:     account.Language,
			Timezone:     account.Timezone,
			Phone:        account.Phone,
			Organization: account.Organization,
			Position:     account.Position,
		},
	}, nil
}

// CurrentUser reports whether the caller is usable for upstream operations.
// An unexpired outer token with a lapsed embedded session is unauthenticated.
func (s *AuthService) CurrentUser(claims *auth.Claims) *CurrentUser {
	if !claims.UpstreamSessionValid(s.now()) {
		s.logger.Warn("upstream session expired", zap.String("username", claims.Username))
		return &CurrentUser{Authenticated: false}
	}
	return &CurrentUser{
		Authenticated: true,
		User: UserInfo{
			UserID:    claims.UserID,
			Username:  claims.Username,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
		},
		TokenExpiresIn: s.tokens.RemainingSeconds(claims),
	}
}

// Logout is a logical no-op: the outer JWT cannot be revoked server-side.
func (s *AuthService) Logout() {
	s.logger.Info("user logged out")
}

// sessionExpiryMillis converts the upstream expiry timestamp to epoch millis
// minus the safety margin. An unparsable value falls back to the upstream's
// nominal 30 minute session lifetime.
func (s *AuthService) sessionExpiryMillis(sessionExpires string) int64 {
	expires, err := time.Parse("2006-01-02T15:04:05Z0700", sessionExpires)
	if err != nil {
		s.logger.Warn("unparsable upstream session expiry", zap.String("value", sessionExpires), zap.Error(err))
		expires = s.now().Add(30 * time.Minute)
	}
	return expires.Add(-s.margin).UnixMilli()
}

// mapAuthError surfaces upstream login failures with a per-status message.
func mapAuthError(err error) error {
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		return apperrors.NewDomainError("AUTH_FAILED", apperrors.AuthErrorMessage(statusErr.Status), http.StatusUnauthorized, nil)
	}
	return apperrors.NewDomainError("UPSTREAM_UNREACHABLE", "could not reach the booking service", http.StatusBadGateway, nil)
}
