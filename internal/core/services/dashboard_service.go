package services

import (
	"context"
	"math"
	"time"

	"midway/internal/core/domain"
	"midway/internal/core/ports"
	"midway/pkg/tracing"
	"midway/pkg/utils"

	"go.uber.org/zap"
)

type dashboardService struct {
	payments *ResourceService[*domain.Payment]
	bookings *ResourceService[*domain.Booking]
	tasks    *ResourceService[*domain.Task]
	users    ports.UserRepository
	now      func() time.Time
	logger   *zap.SugaredLogger
}

func NewDashboardService(
	payments *ResourceService[*domain.Payment],
	bookings *ResourceService[*domain.Booking],
	tasks *ResourceService[*domain.Task],
	users ports.UserRepository,
	logger *zap.SugaredLogger,
) ports.DashboardService {
	return &dashboardService{
		payments: payments,
		bookings: bookings,
		tasks:    tasks,
		users:    users,
		now:      utils.Now,
		logger:   logger,
	}
}

// Stats summarizes the records visible to principal. Trends compare the
// current calendar month with the previous one.
func (s *dashboardService) Stats(ctx context.Context, principal *domain.Principal) (*domain.DashboardStats, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	ctx, span := tracing.StartSpan(ctx, "dashboard.stats")
	defer span.End()

	stats := &domain.DashboardStats{}

	completed, err := revenueSamples(ctx, s.payments, principal, ports.Filter{})
	if err != nil {
		return nil, err
	}
	for _, p := range completed {
		stats.TotalRevenue += p.Value
	}

	pending, err := s.bookings.Count(ctx, principal, ports.Filter{Status: string(domain.BookingPending)})
	if err != nil {
		return nil, err
	}
	stats.PendingBookings = int(pending)

	pendingTasks, err := s.tasks.Count(ctx, principal, ports.Filter{Status: string(domain.TaskPending)})
	if err != nil {
		return nil, err
	}
	stats.PendingTasks = int(pendingTasks)

	cleaners, err := s.users.List(ctx, ports.Filter{Status: string(domain.RoleCleaner)})
	if err != nil {
		return nil, err
	}
	for _, u := range cleaners {
		if u.Active {
			stats.ActiveCleaners++
		}
	}

	now := s.now()
	window := ports.Filter{Since: utils.AddMonths(utils.StartOfMonth(now), -1)}

	revenue, err := revenueSamples(ctx, s.payments, principal, window)
	if err != nil {
		return nil, err
	}
	stats.Trends.Revenue = monthOverMonth(BuildMonthlySeries(now, 2, revenue, AggregateSum))

	bookings, err := bookingSamples(ctx, s.bookings, principal, window)
	if err != nil {
		return nil, err
	}
	stats.Trends.Bookings = monthOverMonth(BuildMonthlySeries(now, 2, bookings, AggregateCount))

	return stats, nil
}

// monthOverMonth returns the percentage change from the second-to-last to
// the last point, rounded to one decimal. A zero baseline yields 0.
func monthOverMonth(points []domain.MonthlyPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	prev := points[len(points)-2].Value
	cur := points[len(points)-1].Value
	if prev == 0 {
		return 0
	}
	return math.Round((cur-prev)/prev*1000) / 10
}
