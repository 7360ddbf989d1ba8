package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/booking-gateway/internal/api/http/handlers"
	"github.com/spec-kit/booking-gateway/internal/observability"
	"github.com/spec-kit/booking-gateway/internal/session"
	"github.com/spec-kit/booking-gateway/internal/upstream"
)

type staticAuthenticator struct{}

func (staticAuthenticator) Authenticate(context.Context, string, string) (*upstream.AuthResponse, error) {
	return &upstream.AuthResponse{SessionToken: "session-token", UserID: "42", IsAuthenticated: true}, nil
}

type readyResponse struct {
	Status        string            `json:"status"`
	Dependencies  map[string]string `json:"dependencies"`
	UpstreamCalls map[string]int64  `json:"upstream_calls"`
}

func newHealthApp(store *session.Store, metrics *observability.Metrics) *fiber.App {
	handler := handlers.NewHealthHandler("booking-gateway", "1.0.0", store, nil, metrics)
	app := fiber.New()
	app.Get("/health/live", handler.Live)
	app.Get("/health/ready", handler.Ready)
	return app
}

func TestLiveReportsServiceIdentity(t *testing.T) {
	store := session.NewStore(staticAuthenticator{}, session.StoreConfig{}, zap.NewNop())
	app := newHealthApp(store, observability.NewMetrics())

	resp, err := app.Test(httptest.NewRequest("GET", "/health/live", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "alive", body["status"])
	require.Equal(t, "booking-gateway", body["service"])
}

func TestReadyReportsColdSessionAndUpstreamCalls(t *testing.T) {
	store := session.NewStore(staticAuthenticator{}, session.StoreConfig{}, zap.NewNop())
	metrics := observability.NewMetrics()
	metrics.RecordUpstreamCall("schedule_list", 1, true)
	app := newHealthApp(store, metrics)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body readyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "ready", body.Status)
	require.Equal(t, "cold", body.Dependencies["upstream_session"])
	require.EqualValues(t, 1, body.UpstreamCalls["schedule_list|1|ok"])
}

func TestReadyReportsWarmSession(t *testing.T) {
	store := session.NewStore(staticAuthenticator{}, session.StoreConfig{}, zap.NewNop())
	store.PreAuthenticate(context.Background())
	app := newHealthApp(store, observability.NewMetrics())

	resp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body readyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "warm", body.Dependencies["upstream_session"])
}
