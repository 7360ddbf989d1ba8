package upstream_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/booking-gateway/internal/config"
	"github.com/spec-kit/booking-gateway/internal/upstream"
)

func newTestClient(t *testing.T, handler http.Handler) *upstream.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return upstream.NewClient(config.UpstreamConfig{
		BaseURL:          server.URL,
		AuthPath:         "/auth",
		ReservationsPath: "/reservations",
		AccountsPath:     "/accounts",
		TimeoutSeconds:   5,
	}, zap.NewNop())
}

func TestAuthenticate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth", r.URL.Path)

		var req upstream.AuthRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "mrossi", req.Username)
		require.Equal(t, "password", req.Password)

		_ = json.NewEncoder(w).Encode(upstream.AuthResponse{
			SessionToken:    "session-token",
			UserID:          "7",
			SessionExpires:  "2026-01-07T10:30:00+0100",
			IsAuthenticated: true,
		})
	}))

	resp, err := client.Authenticate(context.Background(), "mrossi", "password")
	require.NoError(t, err)
	require.Equal(t, "session-token", resp.SessionToken)
	require.Equal(t, "7", resp.UserID)
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(upstream.AuthResponse{IsAuthenticated: false})
	}))

	_, err := client.Authenticate(context.Background(), "mrossi", "wrong")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing session token")
}

func TestListReservationsSendsSessionHeaders(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "session-token", r.Header.Get("X-Booked-SessionToken"))
		require.Equal(t, "7", r.Header.Get("X-Booked-UserId"))
		require.Equal(t, "2026-01-05T00:00:00", r.URL.Query().Get("startDateTime"))
		require.Equal(t, "2026-01-19T00:00:00", r.URL.Query().Get("endDateTime"))
		require.Empty(t, r.URL.Query().Get("userId"))

		_ = json.NewEncoder(w).Encode(upstream.ReservationsEnvelope{Reservations: []upstream.Reservation{
			{ReferenceNumber: "ref-1"},
		}})
	}))

	session := upstream.Session{Token: "session-token", UserID: "7"}
	reservations, err := client.ListReservations(context.Background(), session, upstream.ReservationQuery{
		Start: "2026-01-05T00:00:00",
		End:   "2026-01-19T00:00:00",
	})
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	require.Equal(t, "ref-1", reservations[0].ReferenceNumber)
}

func TestListFullReservationsForwardsUserFilter(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "7", r.URL.Query().Get("userId"))
		_ = json.NewEncoder(w).Encode(upstream.FullReservationsEnvelope{})
	}))

	session := upstream.Session{Token: "session-token", UserID: "7"}
	_, err := client.ListFullReservations(context.Background(), session, upstream.ReservationQuery{
		Start:  "2026-01-05T00:00:00",
		End:    "2026-02-02T00:00:00",
		UserID: "7",
	})
	require.NoError(t, err)
}

func TestUpdateReservationTargetsReference(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/reservations/ref-9", r.URL.Path)
		_ = json.NewEncoder(w).Encode(upstream.ReservationAck{ReferenceNumber: "ref-9"})
	}))

	session := upstream.Session{Token: "session-token", UserID: "7"}
	ack, err := client.UpdateReservation(context.Background(), session, "ref-9", upstream.CreateReservationRequest{ResourceID: 3})
	require.NoError(t, err)
	require.Equal(t, "ref-9", ack.ReferenceNumber)
}

func TestUpdatePasswordPath(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts/7/Password", r.URL.Path)
		_ = json.NewEncoder(w).Encode(upstream.AccountAck{UserID: 7, Message: "updated"})
	}))

	session := upstream.Session{Token: "session-token", UserID: "7"}
	ack, err := client.UpdatePassword(context.Background(), session, "7", upstream.UpdatePasswordRequest{
		CurrentPassword: "old",
		NewPassword:     "new",
	})
	require.NoError(t, err)
	require.Equal(t, "updated", ack.Message)
}

func TestStatusErrorCarriesBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("slot taken"))
	}))

	session := upstream.Session{Token: "session-token", UserID: "7"}
	_, err := client.CreateReservation(context.Background(), session, upstream.CreateReservationRequest{ResourceID: 3})
	require.Error(t, err)

	var statusErr *upstream.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusConflict, statusErr.Status)
	require.Equal(t, "slot taken", statusErr.Body)
}
