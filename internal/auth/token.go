package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/booking-gateway/internal/upstream"
)

// TokenManager handles issuing and validating the outer JWT credential.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Claims is the payload embedded in the outer credential. SessionExpiry
// tracks the embedded upstream session, not the outer token: the two expire
// independently and an unexpired token can carry a dead upstream session.
type Claims struct {
	UserID         int    `json:"userId"`
	Username       string `json:"username"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	SessionToken   string `json:"sessionToken"`
	UpstreamUserID string `json:"upstreamUserId"`
	SessionExpiry  int64  `json:"sessionExpiry"`
	jwt.RegisteredClaims
}

// UpstreamSessionValid reports whether the embedded upstream session is
// still usable at the given instant.
func (c *Claims) UpstreamSessionValid(now time.Time) bool {
	return c.SessionExpiry > 0 && now.UnixMilli() < c.SessionExpiry
}

// UpstreamSession returns the per-user credential pair for upstream calls.
func (c *Claims) UpstreamSession() upstream.Session {
	return upstream.Session{Token: c.SessionToken, UserID: c.UpstreamUserID}
}

// GenerateToken signs a JWT embedding the given claims.
func (tm *TokenManager) GenerateToken(claims *Claims) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.Username,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates the outer credential and returns its claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// RemainingSeconds reports how long the outer credential stays valid.
func (tm *TokenManager) RemainingSeconds(claims *Claims) int64 {
	if claims.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return 0
	}
	return int64(remaining.Seconds())
}
