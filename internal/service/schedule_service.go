package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/booking-gateway/internal/cache"
	"github.com/spec-kit/booking-gateway/internal/config"
	"github.com/spec-kit/booking-gateway/internal/domain"
	"github.com/spec-kit/booking-gateway/internal/observability"
	"github.com/spec-kit/booking-gateway/internal/schedule"
	"github.com/spec-kit/booking-gateway/internal/upstream"
)

const (
	cacheKeyWeek     = "schedule:week:all"
	cacheKeyUpcoming = "schedule:upcoming"
	cacheKeyResource = "schedule:week:resource:"
)

// ScheduleLister is the slice of the upstream client the read path needs.
type ScheduleLister interface {
	ListReservations(ctx context.Context, s upstream.Session, q upstream.ReservationQuery) ([]upstream.Reservation, error)
}

// SessionProvider supplies the shared service-account session.
type SessionProvider interface {
	GetValid(ctx context.Context) (*domain.UpstreamSession, error)
}

// ScheduleService serves the public weekly schedule: fetch through the
// service-account session, filter, map for display, cache, and degrade to
// fixed fallback data when the upstream stays unreachable.
type ScheduleService struct {
	api      ScheduleLister
	sessions SessionProvider
	resolver *schedule.Resolver
	cache    cache.Store
	metrics  *observability.Metrics
	logger   *zap.Logger

	retries       int
	backoff       time.Duration
	publicWeeks   int
	resourceWeeks int
	now           func() time.Time
}

// ScheduleDependencies bundles collaborators for the schedule service.
type ScheduleDependencies struct {
	API      ScheduleLister
	Sessions SessionProvider
	Resolver *schedule.Resolver
	Cache    cache.Store
	Metrics  *observability.Metrics
	Logger   *zap.Logger
	Now      func() time.Time
	Backoff  time.Duration
}

// NewScheduleService builds the service.
func NewScheduleService(cfg config.ScheduleConfig, deps ScheduleDependencies) *ScheduleService {
	retries := cfg.ListRetries
	if retries <= 0 {
		retries = 3
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	backoff := deps.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}
	publicWeeks := cfg.PublicWeeks
	if publicWeeks <= 0 {
		publicWeeks = 2
	}
	resourceWeeks := cfg.ResourceWeeks
	if resourceWeeks <= 0 {
		resourceWeeks = 4
	}
	return &ScheduleService{
		api:           deps.API,
		sessions:      deps.Sessions,
		resolver:      deps.Resolver,
		cache:         deps.Cache,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		retries:       retries,
		backoff:       backoff,
		publicWeeks:   publicWeeks,
		resourceWeeks: resourceWeeks,
		now:           now,
	}
}

// ListWeek returns the target week's training slots across all resources.
func (s *ScheduleService) ListWeek(ctx context.Context) ([]domain.TrainingSlot, error) {
	return s.cached(ctx, cacheKeyWeek, func() []domain.TrainingSlot {
		return s.fetchWithRetry(ctx, s.publicWeeks, "", true)
	})
}

// ListWeekForResource returns the target week's slots for a single resource,
// matched case-insensitively on the exact name.
func (s *ScheduleService) ListWeekForResource(ctx context.Context, resourceName string) ([]domain.TrainingSlot, error) {
	key := cacheKeyResource + strings.ToLower(resourceName)
	return s.cached(ctx, key, func() []domain.TrainingSlot {
		return s.fetchWithRetry(ctx, s.resourceWeeks, resourceName, true)
	})
}

// ListUpcoming returns every approved reservation in the fetch span without
// target-week filtering. This is a distinct, simpler operation from ListWeek.
func (s *ScheduleService) ListUpcoming(ctx context.Context) ([]domain.TrainingSlot, error) {
	return s.cached(ctx, cacheKeyUpcoming, func() []domain.TrainingSlot {
		return s.fetchWithRetry(ctx, s.publicWeeks, "", false)
	})
}

// Refresh drops every cached schedule and recomputes the weekly view.
func (s *ScheduleService) Refresh(ctx context.Context) ([]domain.TrainingSlot, error) {
	s.cache.InvalidateAll(ctx)
	return s.ListWeek(ctx)
}

// cached wraps a compute function with the result cache. The compute result
// is marshaled once, so repeated reads within the TTL are byte-identical and
// cost no upstream calls. The cache itself holds no lock during compute, so a
// slow retrying fetch never blocks unrelated callers.
func (s *ScheduleService) cached(ctx context.Context, key string, compute func() []domain.TrainingSlot) ([]domain.TrainingSlot, error) {
	payload, err := cache.GetOrCompute(ctx, s.cache, key, func() ([]byte, error) {
		return json.Marshal(compute())
	})
	if err != nil {
		return nil, err
	}
	var slots []domain.TrainingSlot
	if err := json.Unmarshal(payload, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// fetchWithRetry runs the whole fetch end-to-end up to the configured attempt
// count with linear backoff, falling back to fixed data on exhaustion. The
// schedule is display-only, so availability wins over correctness here.
//
// Each attempt includes the session acquisition, and the session store runs
// its own retry ladder per call. Against a fully dead upstream the worst case
// before the fallback is served is retries * store-retries authentication
// attempts plus both backoff ladders; the request deadline bounds the
// upstream waits, not the sleeps.
func (s *ScheduleService) fetchWithRetry(ctx context.Context, weeks int, resourceName string, weekFilter bool) []domain.TrainingSlot {
	var lastErr error

	for attempt := 1; attempt <= s.retries; attempt++ {
		slots, err := s.fetchOnce(ctx, weeks, resourceName, weekFilter)
		s.metrics.RecordUpstreamCall("schedule_list", attempt, err == nil)
		if err == nil {
			return slots
		}

		lastErr = err
		s.logger.Warn("schedule fetch attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.retries),
			zap.Error(err),
		)
		if attempt < s.retries {
			time.Sleep(time.Duration(attempt) * s.backoff)
		}
	}

	s.logger.Error("all schedule fetch attempts failed, serving fallback data", zap.Error(lastErr))
	return fallbackSlots()
}

func (s *ScheduleService) fetchOnce(ctx context.Context, weeks int, resourceName string, weekFilter bool) ([]domain.TrainingSlot, error) {
	sess, err := s.sessions.GetValid(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	start := s.resolver.WeekStart(now)
	end := start.AddDate(0, 0, 7*weeks)

	reservations, err := s.api.ListReservations(ctx, upstream.Session{Token: sess.Token, UserID: sess.UserID}, upstream.ReservationQuery{
		Start: schedule.FormatQuery(start),
		End:   schedule.FormatQuery(end),
	})
	if err != nil {
		return nil, err
	}

	loc := s.resolver.Location()
	slots := make([]domain.TrainingSlot, 0, len(reservations))
	for _, res := range reservations {
		if res.RequiresApproval {
			continue
		}
		if resourceName != "" && !strings.EqualFold(resourceName, res.ResourceName) {
			continue
		}

		startAt, err := schedule.ParseUpstream(res.StartDate, loc)
		if err != nil {
			return nil, err
		}
		endAt, err := schedule.ParseUpstream(res.EndDate, loc)
		if err != nil {
			return nil, err
		}

		if weekFilter && !s.resolver.InTargetWeek(startAt, now) {
			continue
		}

		slots = append(slots, domain.TrainingSlot{
			Group:           strings.TrimSpace(res.FirstName + " " + res.LastName),
			Day:             schedule.WeekdayName(startAt),
			Time:            schedule.FormatTimeRange(startAt, endAt),
			ResourceName:    res.ResourceName,
			ResourceID:      res.ResourceID,
			ReferenceNumber: res.ReferenceNumber,
			Title:           res.Title,
			Description:     res.Description,
			StartDate:       schedule.FormatISO(startAt),
			EndDate:         schedule.FormatISO(endAt),
			IsRecurring:     res.IsRecurring,
		})
	}
	return slots, nil
}

// fallbackSlots is the fixed data set served when the upstream is unreachable.
func fallbackSlots() []domain.TrainingSlot {
	return []domain.TrainingSlot{
		{
			Group:        "Under 19",
			Day:          "Lunedì",
			Time:         "18:00-20:00",
			ResourceName: "Palestra A",
		},
	}
}
