package services

import (
	"context"
	"testing"
	"time"

	"midway/internal/core/domain"
	"midway/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildMonthlySeries_GapFreeAndOrdered(t *testing.T) {
	samples := []Sample{
		{At: time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC), Value: 5},
		{At: time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC), Value: 3},
		{At: time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC), Value: 4},
		{At: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), Value: 1},
	}

	points := BuildMonthlySeries(fixedNow, 6, samples, AggregateAverage)
	require.Len(t, points, 6)

	periods := make([]string, 0, len(points))
	for _, p := range points {
		periods = append(periods, p.Period)
	}
	assert.Equal(t, []string{"2026-01", "2026-02", "2026-03", "2026-04", "2026-05", "2026-06"}, periods)

	assert.Equal(t, domain.MonthlyPoint{Period: "2026-03", Value: 4, Count: 1}, points[2])
	assert.Equal(t, domain.MonthlyPoint{Period: "2026-04", Value: 0, Count: 0}, points[3])
	assert.Equal(t, domain.MonthlyPoint{Period: "2026-06", Value: 4, Count: 2}, points[5])
}

func TestBuildMonthlySeries_Aggregations(t *testing.T) {
	samples := []Sample{
		{At: fixedNow, Value: 100},
		{At: fixedNow.Add(-time.Hour), Value: 50},
	}

	sum := BuildMonthlySeries(fixedNow, 1, samples, AggregateSum)
	count := BuildMonthlySeries(fixedNow, 1, samples, AggregateCount)
	avg := BuildMonthlySeries(fixedNow, 1, samples, AggregateAverage)

	assert.Equal(t, 150.0, sum[0].Value)
	assert.Equal(t, 2.0, count[0].Value)
	assert.Equal(t, 75.0, avg[0].Value)
}

func TestBuildMonthlySeries_CrossesYearBoundary(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 1, 0, time.UTC)
	points := BuildMonthlySeries(now, 6, nil, AggregateSum)

	require.Len(t, points, 6)
	assert.Equal(t, "2025-09", points[0].Period)
	assert.Equal(t, "2026-02", points[5].Period)
}

func TestBuildMonthlySeries_UsesUTCMonths(t *testing.T) {
	tz := time.FixedZone("UTC-5", -5*3600)
	// 2026-05-31 22:00 local is already June in UTC.
	samples := []Sample{{At: time.Date(2026, 5, 31, 22, 0, 0, 0, tz), Value: 1}}

	points := BuildMonthlySeries(fixedNow, 2, samples, AggregateCount)
	assert.Equal(t, 0, points[0].Count)
	assert.Equal(t, 1, points[1].Count)
}

func TestValidateMonthsBack(t *testing.T) {
	assert.NoError(t, ValidateMonthsBack(1))
	assert.NoError(t, ValidateMonthsBack(DefaultMonthsBack))
	assert.NoError(t, ValidateMonthsBack(MaxMonthsBack))

	for _, n := range []int{0, -1, MaxMonthsBack + 1} {
		var verr *validation.Error
		assert.ErrorAs(t, ValidateMonthsBack(n), &verr, "months=%d", n)
	}
}

func analyticsFixture(t *testing.T) (*analyticsService, *ResourceService[*domain.Feedback], *ResourceService[*domain.Payment], *ResourceService[*domain.Booking]) {
	t.Helper()
	feedback, _ := newScoped[*domain.Feedback]("feedback", ScopeOwnerUnlessStaff, "clientId")
	payments, _ := newScoped[*domain.Payment]("payment", ScopeOwnerUnlessStaff, "clientId")
	bookings, _ := newScoped[*domain.Booking]("booking", ScopeOwnerUnlessStaff, "clientId")

	svc := NewAnalyticsService(feedback, payments, bookings, zap.NewNop().Sugar()).(*analyticsService)
	svc.now = fixedClock
	return svc, feedback, payments, bookings
}

func TestMonthlyAggregate_SatisfactionIsScoped(t *testing.T) {
	ctx := context.Background()
	svc, feedback, _, _ := analyticsFixture(t)

	_, err := feedback.Create(ctx, clientPrincipal, &domain.Feedback{BookingID: "b-1", Rating: 5})
	require.NoError(t, err)
	_, err = feedback.Create(ctx, otherClient, &domain.Feedback{BookingID: "b-2", Rating: 1})
	require.NoError(t, err)

	mine, err := svc.MonthlyAggregate(ctx, clientPrincipal, domain.MetricSatisfaction, 6)
	require.NoError(t, err)
	require.Len(t, mine, 6)
	assert.Equal(t, 5.0, mine[5].Value)
	assert.Equal(t, 1, mine[5].Count)

	company, err := svc.MonthlyAggregate(ctx, managerPrincipal, domain.MetricSatisfaction, 6)
	require.NoError(t, err)
	assert.Equal(t, 3.0, company[5].Value)
	assert.Equal(t, 2, company[5].Count)
}

func TestMonthlyAggregate_RevenueCountsCompletedOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, payments, _ := analyticsFixture(t)

	for _, p := range []*domain.Payment{
		{ClientID: "client-1", BookingID: "b-1", Amount: 120, Status: domain.PaymentCompleted},
		{ClientID: "client-1", BookingID: "b-2", Amount: 80, Status: domain.PaymentCompleted},
		{ClientID: "client-2", BookingID: "b-3", Amount: 999, Status: domain.PaymentPending},
	} {
		_, err := payments.Create(ctx, adminPrincipal, p)
		require.NoError(t, err)
	}

	points, err := svc.MonthlyAggregate(ctx, adminPrincipal, domain.MetricRevenue, 3)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, 200.0, points[2].Value)
	assert.Equal(t, 0.0, points[0].Value)
}

func TestMonthlyAggregate_BookingsAcrossMonths(t *testing.T) {
	ctx := context.Background()
	svc, _, _, bookings := analyticsFixture(t)

	bookings.now = func() time.Time { return fixedNow.AddDate(0, -2, 0) }
	_, err := bookings.Create(ctx, clientPrincipal, newBooking())
	require.NoError(t, err)
	bookings.now = fixedClock
	_, err = bookings.Create(ctx, clientPrincipal, newBooking())
	require.NoError(t, err)

	points, err := svc.MonthlyAggregate(ctx, clientPrincipal, domain.MetricBookings, 6)
	require.NoError(t, err)
	require.Len(t, points, 6)
	assert.Equal(t, "2026-04", points[3].Period)
	assert.Equal(t, 1.0, points[3].Value)
	assert.Equal(t, 0.0, points[4].Value)
	assert.Equal(t, 1.0, points[5].Value)
}

func TestMonthlyAggregate_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := analyticsFixture(t)

	var verr *validation.Error
	_, err := svc.MonthlyAggregate(ctx, adminPrincipal, domain.MetricRevenue, 0)
	assert.ErrorAs(t, err, &verr)

	_, err = svc.MonthlyAggregate(ctx, adminPrincipal, domain.Metric("profit"), 6)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "metric")

	_, err = svc.MonthlyAggregate(ctx, nil, domain.MetricRevenue, 6)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
