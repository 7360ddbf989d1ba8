package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/booking-gateway/internal/auth"
	"github.com/spec-kit/booking-gateway/internal/domain"
)

// GymUsage counts bookings per resource for the dashboard.
type GymUsage struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DashboardStats summarizes the caller's booking activity.
type DashboardStats struct {
	Period            string     `json:"period"`
	ActiveBookings    int        `json:"active_bookings"`
	UpcomingBookings  int        `json:"upcoming_bookings"`
	ConfirmedBookings int        `json:"confirmed_bookings"`
	PendingBookings   int        `json:"pending_bookings"`
	CompletedBookings int        `json:"completed_bookings"`
	TotalHours        float64    `json:"total_hours"`
	GymsUsed          int        `json:"gyms_used"`
	TopGyms           []GymUsage `json:"top_gyms"`
	PreferredTimeSlot string     `json:"preferred_time_slot,omitempty"`
	LastUpdated       time.Time  `json:"last_updated"`
}

// DashboardService derives booking statistics from the user listing.
type DashboardService struct {
	reservations *ReservationService
	now          func() time.Time
	logger       *zap.Logger
}

// NewDashboardService builds the service.
func NewDashboardService(reservations *ReservationService, logger *zap.Logger, now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{reservations: reservations, now: now, logger: logger}
}

// Stats computes dashboard statistics for the caller over the given period
// ("week", "month", "year" or "all").
func (s *DashboardService) Stats(ctx context.Context, claims *auth.Claims, period string) (*DashboardStats, error) {
	list, err := s.reservations.ListForUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reservations := filterByPeriod(list.Reservations, period, now)

	stats := &DashboardStats{Period: period, LastUpdated: now}
	gymCounts := make(map[string]int)
	slotCounts := make(map[string]int)

	for _, res := range reservations {
		switch res.Status {
		case domain.ReservationStatusConfirmed:
			stats.ConfirmedBookings++
			if res.StartDateTime.After(now) {
				stats.ActiveBookings++
			}
		case domain.ReservationStatusPending:
			stats.PendingBookings++
		case domain.ReservationStatusCompleted:
			stats.CompletedBookings++
		}
		if res.StartDateTime.After(now) {
			stats.UpcomingBookings++
		}
		if res.Status == domain.ReservationStatusConfirmed || res.Status == domain.ReservationStatusCompleted {
			stats.TotalHours += res.EndDateTime.Sub(res.StartDateTime).Hours()
			gymCounts[res.ResourceName]++
			slotCounts[timeSlot(res.StartDateTime)]++
		}
	}

	stats.GymsUsed = len(gymCounts)
	stats.TopGyms = topGyms(gymCounts, 3)
	stats.PreferredTimeSlot = preferredSlot(slotCounts)
	return stats, nil
}

func filterByPeriod(reservations []domain.UserReservation, period string, now time.Time) []domain.UserReservation {
	var since time.Time
	switch period {
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, -1, 0)
	case "year":
		since = now.AddDate(-1, 0, 0)
	default:
		return reservations
	}

	filtered := make([]domain.UserReservation, 0, len(reservations))
	for _, res := range reservations {
		if res.StartDateTime.After(since) {
			filtered = append(filtered, res)
		}
	}
	return filtered
}

func topGyms(counts map[string]int, limit int) []GymUsage {
	usage := make([]GymUsage, 0, len(counts))
	for name, count := range counts {
		usage = append(usage, GymUsage{Name: name, Count: count})
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].Name < usage[j].Name
	})
	if len(usage) > limit {
		usage = usage[:limit]
	}
	return usage
}

func timeSlot(start time.Time) string {
	switch hour := start.Hour(); {
	case hour >= 6 && hour < 12:
		return "06:00-12:00"
	case hour >= 12 && hour < 18:
		return "12:00-18:00"
	case hour >= 18:
		return "18:00-24:00"
	default:
		return "00:00-06:00"
	}
}

func preferredSlot(counts map[string]int) string {
	best := ""
	bestCount := 0
	for slot, count := range counts {
		if count > bestCount || (count == bestCount && slot < best) {
			best = slot
			bestCount = count
		}
	}
	return best
}
