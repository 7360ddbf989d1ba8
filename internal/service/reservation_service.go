package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/booking-gateway/internal/auth"
	"github.com/spec-kit/booking-gateway/internal/config"
	"github.com/spec-kit/booking-gateway/internal/domain"
	"github.com/spec-kit/booking-gateway/internal/schedule"
	"github.com/spec-kit/booking-gateway/internal/upstream"
	apperrors "github.com/spec-kit/booking-gateway/pkg/util"
)

const (
	maxReservationDuration = 8 * time.Hour
	modifyLeadTime         = time.Hour
	cancelLeadTime         = 30 * time.Minute
)

// BookingAPI is the slice of the upstream client the write path needs.
type BookingAPI interface {
	ListFullReservations(ctx context.Context, s upstream.Session, q upstream.ReservationQuery) ([]upstream.FullReservation, error)
	CreateReservation(ctx context.Context, s upstream.Session, req upstream.CreateReservationRequest) (*upstream.ReservationAck, error)
	UpdateReservation(ctx context.Context, s upstream.Session, referenceNumber string, req upstream.CreateReservationRequest) (*upstream.ReservationAck, error)
	DeleteReservation(ctx context.Context, s upstream.Session, referenceNumber string) (*upstream.ReservationAck, error)
}

// ReservationInput is a validated booking request in the display timezone.
type ReservationInput struct {
	ResourceID          int
	Start               time.Time
	End                 time.Time
	Title               string
	Description         string
	Participants        []int
	Invitees            []int
	ParticipatingGuests []string
	InvitedGuests       []string
	AllowParticipation  *bool
	TermsAccepted       *bool
}

// ReservationResult echoes the upstream acknowledgement plus the request's
// own fields for frontend convenience.
type ReservationResult struct {
	ReferenceNumber   string    `json:"reference_number"`
	IsPendingApproval bool      `json:"is_pending_approval"`
	Message           string    `json:"message,omitempty"`
	StartDateTime     time.Time `json:"start_date_time"`
	EndDateTime       time.Time `json:"end_date_time"`
	Title             string    `json:"title"`
	ResourceID        int       `json:"resource_id"`
}

// UserReservationList is the caller's bookings plus summary counts.
type UserReservationList struct {
	Reservations   []domain.UserReservation `json:"reservations"`
	TotalCount     int                      `json:"total_count"`
	ConfirmedCount int                      `json:"confirmed_count"`
	PendingCount   int                      `json:"pending_count"`
	UpcomingCount  int                      `json:"upcoming_count"`
}

// ReservationService handles bookings on the per-user credential track: the
// upstream session embedded in the caller's claims, never the shared
// service-account session.
type ReservationService struct {
	api       BookingAPI
	resolver  *schedule.Resolver
	userWeeks int
	now       func() time.Time
	logger    *zap.Logger
}

// NewReservationService builds the service.
func NewReservationService(cfg config.ScheduleConfig, api BookingAPI, resolver *schedule.Resolver, logger *zap.Logger, now func() time.Time) *ReservationService {
	userWeeks := cfg.UserWeeks
	if userWeeks <= 0 {
		userWeeks = 4
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationService{api: api, resolver: resolver, userWeeks: userWeeks, now: now, logger: logger}
}

// Create books a resource for the caller.
func (s *ReservationService) Create(ctx context.Context, claims *auth.Claims, input ReservationInput) (*ReservationResult, error) {
	if !claims.UpstreamSessionValid(s.now()) {
		return nil, apperrors.NewSessionExpired()
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}

	ack, err := s.api.CreateReservation(ctx, claims.UpstreamSession(), s.toUpstreamRequest(input, claims.UserID))
	if err != nil {
		return nil, mapBookingError(err)
	}

	s.logger.Info("reservation created",
		zap.String("reference_number", ack.ReferenceNumber),
		zap.String("username", claims.Username),
	)
	return s.toResult(ack, input), nil
}

// Update replaces an existing reservation.
func (s *ReservationService) Update(ctx context.Context, claims *auth.Claims, referenceNumber string, input ReservationInput) (*ReservationResult, error) {
	if !claims.UpstreamSessionValid(s.now()) {
		return nil, apperrors.NewSessionExpired()
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}

	ack, err := s.api.UpdateReservation(ctx, claims.UpstreamSession(), referenceNumber, s.toUpstreamRequest(input, claims.UserID))
	if err != nil {
		return nil, mapBookingError(err)
	}

	s.logger.Info("reservation updated",
		zap.String("reference_number", referenceNumber),
		zap.String("username", claims.Username),
	)
	return s.toResult(ack, input), nil
}

// Delete cancels a reservation.
func (s *ReservationService) Delete(ctx context.Context, claims *auth.Claims, referenceNumber string) (*upstream.ReservationAck, error) {
	if !claims.UpstreamSessionValid(s.now()) {
		return nil, apperrors.NewSessionExpired()
	}

	ack, err := s.api.DeleteReservation(ctx, claims.UpstreamSession(), referenceNumber)
	if err != nil {
		return nil, mapBookingError(err)
	}

	s.logger.Info("reservation deleted",
		zap.String("reference_number", referenceNumber),
		zap.String("username", claims.Username),
	)
	return ack, nil
}

// ListForUser fetches the caller's bookings for the coming weeks with
// derived display fields and summary counts.
func (s *ReservationService) ListForUser(ctx context.Context, claims *auth.Claims) (*UserReservationList, error) {
	now := s.now()
	if !claims.UpstreamSessionValid(now) {
		return nil, apperrors.NewSessionExpired()
	}

	start := s.resolver.WeekStart(now)
	end := start.AddDate(0, 0, 7*s.userWeeks)

	reservations, err := s.api.ListFullReservations(ctx, claims.UpstreamSession(), upstream.ReservationQuery{
		Start:  schedule.FormatQuery(start),
		End:    schedule.FormatQuery(end),
		UserID: strconv.Itoa(claims.UserID),
	})
	if err != nil {
		return nil, mapBookingError(err)
	}

	list := &UserReservationList{Reservations: make([]domain.UserReservation, 0, len(reservations))}
	for _, res := range reservations {
		mapped, err := s.mapUserReservation(res, now)
		if err != nil {
			return nil, err
		}
		list.Reservations = append(list.Reservations, mapped)

		switch mapped.Status {
		case domain.ReservationStatusConfirmed:
			list.ConfirmedCount++
		case domain.ReservationStatusPending:
			list.PendingCount++
		}
		if mapped.StartDateTime.After(now) {
			list.UpcomingCount++
		}
	}
	list.TotalCount = len(list.Reservations)
	return list, nil
}

// validate enforces local business rules before any upstream call.
func (s *ReservationService) validate(input ReservationInput) error {
	if !input.End.After(input.Start) {
		return apperrors.NewValidationError("reservation end must be after its start", nil)
	}
	if input.End.Sub(input.Start) > maxReservationDuration {
		return apperrors.NewValidationError("reservation cannot last more than 8 hours", nil)
	}
	if input.Start.After(s.now().AddDate(0, 6, 0)) {
		return apperrors.NewValidationError("reservation cannot start more than 6 months ahead", nil)
	}
	return nil
}

func (s *ReservationService) toUpstreamRequest(input ReservationInput, userID int) upstream.CreateReservationRequest {
	loc := s.resolver.Location()
	terms := true
	if input.TermsAccepted != nil {
		terms = *input.TermsAccepted
	}
	return upstream.CreateReservationRequest{
		ResourceID:          input.ResourceID,
		StartDateTime:       schedule.FormatUpstream(input.Start.In(loc)),
		EndDateTime:         schedule.FormatUpstream(input.End.In(loc)),
		Title:               input.Title,
		UserID:              userID,
		Description:         input.Description,
		TermsAccepted:       terms,
		Participants:        input.Participants,
		Invitees:            input.Invitees,
		ParticipatingGuests: input.ParticipatingGuests,
		InvitedGuests:       input.InvitedGuests,
		AllowParticipation:  input.AllowParticipation,
	}
}

func (s *ReservationService) toResult(ack *upstream.ReservationAck, input ReservationInput) *ReservationResult {
	return &ReservationResult{
		ReferenceNumber:   ack.ReferenceNumber,
		IsPendingApproval: ack.IsPendingApproval,
		Message:           ack.Message,
		StartDateTime:     input.Start,
		EndDateTime:       input.End,
		Title:             input.Title,
		ResourceID:        input.ResourceID,
	}
}

func (s *ReservationService) mapUserReservation(res upstream.FullReservation, now time.Time) (domain.UserReservation, error) {
	loc := s.resolver.Location()

	startAt, err := schedule.ParseUpstream(res.StartDate, loc)
	if err != nil {
		return domain.UserReservation{}, err
	}
	endAt, err := schedule.ParseUpstream(res.EndDate, loc)
	if err != nil {
		return domain.UserReservation{}, err
	}

	status := domain.ReservationStatusConfirmed
	switch {
	case res.RequiresApproval:
		status = domain.ReservationStatusPending
	case endAt.Before(now):
		status = domain.ReservationStatusCompleted
	}

	return domain.UserReservation{
		ReferenceNumber:    res.ReferenceNumber,
		ResourceID:         res.ResourceID,
		ResourceName:       res.ResourceName,
		StartDateTime:      startAt,
		EndDateTime:        endAt,
		FormattedDate:      s.formatDateLabel(startAt, now),
		FormattedTimeRange: startAt.Format("15:04") + " - " + endAt.Format("15:04"),
		Title:              res.Title,
		Description:        res.Description,
		Status:             status,
		IsPendingApproval:  res.RequiresApproval,
		IsRecurring:        res.IsRecurring,
		CanModify:          startAt.After(now.Add(modifyLeadTime)) && !res.RequiresApproval,
		CanCancel:          startAt.After(now.Add(cancelLeadTime)),
		Participants:       res.Participants,
		Invitees:           res.Invitees,
	}, nil
}

// formatDateLabel renders a human-relative label for the booking day.
func (s *ReservationService) formatDateLabel(start, now time.Time) string {
	today := truncateDay(now)
	day := truncateDay(start)
	switch {
	case day.Equal(today):
		return "Oggi"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "Domani"
	default:
		return schedule.FormatDayMonth(start)
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mapBookingError surfaces upstream failures on the write path with a
// user-facing message per status code. Nothing here is swallowed.
func mapBookingError(err error) error {
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		return apperrors.NewUpstreamError(statusErr.Status, apperrors.BookingErrorMessage(statusErr.Status))
	}
	return apperrors.NewDomainError("UPSTREAM_UNREACHABLE", "could not reach the booking service", 502, nil)
}
