package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/booking-gateway/internal/session"
	"github.com/spec-kit/booking-gateway/internal/upstream"
)

type fakeAuthenticator struct {
	mu       sync.Mutex
	calls    int
	failures int
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, _, _ string) (*upstream.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("upstream unavailable")
	}
	return &upstream.AuthResponse{
		SessionToken:    "session-token",
		UserID:          "42",
		SessionExpires:  "2030-01-01T00:00:00+0000",
		IsAuthenticated: true,
	}, nil
}

func (f *fakeAuthenticator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newStore(auth *fakeAuthenticator, retries int) *session.Store {
	return session.NewStore(auth, session.StoreConfig{
		Username: "service-account",
		Password: "secret",
		Retries:  retries,
		Backoff:  time.Millisecond,
	}, zap.NewNop())
}

func TestGetValidReusesSession(t *testing.T) {
	auth := &fakeAuthenticator{}
	store := newStore(auth, 3)

	first, err := store.GetValid(context.Background())
	require.NoError(t, err)
	require.Equal(t, "session-token", first.Token)
	require.Equal(t, "42", first.UserID)

	second, err := store.GetValid(context.Background())
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, auth.callCount())
}

func TestGetValidConcurrentSingleAuthentication(t *testing.T) {
	auth := &fakeAuthenticator{}
	store := newStore(auth, 3)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := store.GetValid(context.Background())
			require.NoError(t, err)
			require.Equal(t, "session-token", sess.Token)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, auth.callCount())
}

func TestGetValidRetriesThenSucceeds(t *testing.T) {
	auth := &fakeAuthenticator{failures: 2}
	store := newStore(auth, 3)

	sess, err := store.GetValid(context.Background())
	require.NoError(t, err)
	require.Equal(t, "session-token", sess.Token)
	require.Equal(t, 3, auth.callCount())
}

func TestGetValidExhaustsRetries(t *testing.T) {
	auth := &fakeAuthenticator{failures: 100}
	store := newStore(auth, 2)

	_, err := store.GetValid(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "after 2 attempts")
	require.Equal(t, 2, auth.callCount())
}

func TestForceRefreshDiscardsSession(t *testing.T) {
	auth := &fakeAuthenticator{}
	store := newStore(auth, 3)

	_, err := store.GetValid(context.Background())
	require.NoError(t, err)

	refreshed, err := store.ForceRefresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "session-token", refreshed.Token)
	require.Equal(t, 2, auth.callCount())
}

func TestPreAuthenticateWarmsAndSwallowsFailures(t *testing.T) {
	auth := &fakeAuthenticator{}
	store := newStore(auth, 3)

	require.False(t, store.Warm())
	store.PreAuthenticate(context.Background())
	require.True(t, store.Warm())

	// Warm cache: no extra upstream call.
	store.PreAuthenticate(context.Background())
	require.Equal(t, 1, auth.callCount())

	failing := &fakeAuthenticator{failures: 100}
	cold := newStore(failing, 2)
	cold.PreAuthenticate(context.Background())
	require.False(t, cold.Warm())
}
