package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/spec-kit/booking-gateway/internal/config"
)

const (
	headerSessionToken = "X-Booked-SessionToken"
	headerUserID       = "X-Booked-UserId"
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Body)
}

// Client issues authenticated HTTP calls to the LibreBooking API. It owns no
// session state; callers supply credentials on every call.
type Client struct {
	baseURL          string
	authPath         string
	reservationsPath string
	accountsPath     string
	http             *http.Client
	logger           *zap.Logger
}

// NewClient builds an upstream client with an instrumented transport.
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:          cfg.BaseURL,
		authPath:         cfg.AuthPath,
		reservationsPath: cfg.ReservationsPath,
		accountsPath:     cfg.AccountsPath,
		http: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// Authenticate exchanges credentials for an upstream session.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, c.baseURL+c.authPath, nil, AuthRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	if out.SessionToken == "" {
		return nil, fmt.Errorf("invalid authentication response: missing session token")
	}
	return &out, nil
}

// ListReservations fetches reservations for the given span.
func (c *Client) ListReservations(ctx context.Context, s Session, q ReservationQuery) ([]Reservation, error) {
	var out ReservationsEnvelope
	if err := c.do(ctx, http.MethodGet, c.reservationsURL(q), &s, nil, &out); err != nil {
		return nil, err
	}
	return out.Reservations, nil
}

// ListFullReservations fetches the detailed reservation shape for a user.
func (c *Client) ListFullReservations(ctx context.Context, s Session, q ReservationQuery) ([]FullReservation, error) {
	var out FullReservationsEnvelope
	if err := c.do(ctx, http.MethodGet, c.reservationsURL(q), &s, nil, &out); err != nil {
		return nil, err
	}
	return out.Reservations, nil
}

// CreateReservation books a resource on behalf of the session user.
func (c *Client) CreateReservation(ctx context.Context, s Session, req CreateReservationRequest) (*ReservationAck, error) {
	var out ReservationAck
	if err := c.do(ctx, http.MethodPost, c.baseURL+c.reservationsPath, &s, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateReservation replaces an existing reservation.
func (c *Client) UpdateReservation(ctx context.Context, s Session, referenceNumber string, req CreateReservationRequest) (*ReservationAck, error) {
	var out ReservationAck
	u := c.baseURL + c.reservationsPath + "/" + url.PathEscape(referenceNumber)
	if err := c.do(ctx, http.MethodPost, u, &s, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteReservation cancels a reservation.
func (c *Client) DeleteReservation(ctx context.Context, s Session, referenceNumber string) (*ReservationAck, error) {
	var out ReservationAck
	u := c.baseURL + c.reservationsPath + "/" + url.PathEscape(referenceNumber)
	if err := c.do(ctx, http.MethodDelete, u, &s, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAccount fetches account details for the given upstream user id.
func (c *Client) GetAccount(ctx context.Context, s Session, userID string) (*Account, error) {
	var out Account
	u := c.baseURL + c.accountsPath + "/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, u, &s, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAccount registers a new upstream account. The endpoint is public.
func (c *Client) CreateAccount(ctx context.Context, req CreateAccountRequest) (*AccountAck, error) {
	var out AccountAck
	if err := c.do(ctx, http.MethodPost, c.baseURL+c.accountsPath+"/", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAccount updates an existing upstream account.
func (c *Client) UpdateAccount(ctx context.Context, s Session, userID string, req UpdateAccountRequest) (*AccountAck, error) {
	var out AccountAck
	u := c.baseURL + c.accountsPath + "/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodPost, u, &s, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePassword changes the password of an upstream account.
func (c *Client) UpdatePassword(ctx context.Context, s Session, userID string, req UpdatePasswordRequest) (*AccountAck, error) {
	var out AccountAck
	u := c.baseURL + c.accountsPath + "/" + url.PathEscape(userID) + "/Password"
	if err := c.do(ctx, http.MethodPost, u, &s, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) reservationsURL(q ReservationQuery) string {
	params := url.Values{}
	params.Set("startDateTime", q.Start)
	params.Set("endDateTime", q.End)
	if q.UserID != "" {
		params.Set("userId", q.UserID)
	}
	return c.baseURL + c.reservationsPath + "?" + params.Encode()
}

func (c *Client) do(ctx context.Context, method, rawURL string, session *Session, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		req.Header.Set(headerSessionToken, session.Token)
		req.Header.Set(headerUserID, session.UserID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("upstream error response",
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
		)
		return &StatusError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode upstream response: %w", err)
		}
	}
	return nil
}
