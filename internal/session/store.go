package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/booking-gateway/internal/domain"
	"github.com/spec-kit/booking-gateway/internal/upstream"
)

// Authenticator performs a single upstream authentication call.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*upstream.AuthResponse, error)
}

// StoreConfig tunes the service-account session store.
type StoreConfig struct {
	Username string
	Password string
	// Validity is kept strictly shorter than the upstream's own ~30 minute
	// session lifetime so the cached credential never races its expiry.
	Validity time.Duration
	Retries  int
	Backoff  time.Duration
	Now      func() time.Time
}

// Store holds the single shared service-account session. Reads of a valid
// session are lock-free; only the authenticate-if-invalid section serializes.
type Store struct {
	auth     Authenticator
	username string
	password string
	validity time.Duration
	retries  int
	backoff  time.Duration
	now      func() time.Time
	logger   *zap.Logger

	mu      sync.Mutex
	current atomic.Pointer[domain.UpstreamSession]
}

// NewStore builds the store, applying defaults for zero-valued config.
func NewStore(auth Authenticator, cfg StoreConfig, logger *zap.Logger) *Store {
	if cfg.Validity <= 0 {
		cfg.Validity = 25 * time.Minute
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{
		auth:     auth,
		username: cfg.Username,
		password: cfg.Password,
		validity: cfg.Validity,
		retries:  cfg.Retries,
		backoff:  cfg.Backoff,
		now:      cfg.Now,
		logger:   logger,
	}
}

// GetValid returns the cached session, authenticating only when the cached
// one has lapsed. Double-checked: validity is re-tested under the lock so
// concurrent callers trigger at most one upstream authentication.
func (s *Store) GetValid(ctx context.Context) (*domain.UpstreamSession, error) {
	if cur := s.current.Load(); cur.ValidAt(s.now(), s.validity) {
		return cur, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur := s.current.Load(); cur.ValidAt(s.now(), s.validity) {
		return cur, nil
	}
	return s.authenticate(ctx)
}

// ForceRefresh discards the cached session and authenticates unconditionally.
func (s *Store) ForceRefresh(ctx context.Context) (*domain.UpstreamSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Store(nil)
	return s.authenticate(ctx)
}

// PreAuthenticate warms the session cache. Failures are logged and never
// surfaced; this is a best-effort background operation.
func (s *Store) PreAuthenticate(ctx context.Context) {
	if cur := s.current.Load(); cur.ValidAt(s.now(), s.validity) {
		return
	}
	if _, err := s.GetValid(ctx); err != nil {
		s.logger.Warn("pre-authentication failed", zap.Error(err))
	}
}

// Warm reports whether a currently valid session is cached, without touching
// the upstream.
func (s *Store) Warm() bool {
	return s.current.Load().ValidAt(s.now(), s.validity)
}

// authenticate retries with linear backoff and replaces the cached session on
// success. Exhausting retries is fatal for callers: every downstream
// operation depends on a usable session.
func (s *Store) authenticate(ctx context.Context) (*domain.UpstreamSession, error) {
	var lastErr error

	for attempt := 1; attempt <= s.retries; attempt++ {
		resp, err := s.auth.Authenticate(ctx, s.username, s.password)
		if err == nil {
			sess := &domain.UpstreamSession{
				Token:           resp.SessionToken,
				UserID:          resp.UserID,
				AuthenticatedAt: s.now(),
			}
			if expires, parseErr := time.Parse("2006-01-02T15:04:05Z0700", resp.SessionExpires); parseErr == nil {
				sess.ExpiresAt = expires
			}
			s.current.Store(sess)
			s.logger.Debug("service account authenticated", zap.String("upstream_user_id", sess.UserID))
			return sess, nil
		}

		lastErr = err
		s.logger.Warn("service account authentication attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.retries),
			zap.Error(err),
		)
		if attempt < s.retries {
			time.Sleep(time.Duration(attempt) * s.backoff)
		}
	}

	return nil, fmt.Errorf("authentication failed after %d attempts: %w", s.retries, lastErr)
}
