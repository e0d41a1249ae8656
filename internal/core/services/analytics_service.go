package services

import (
	"context"
	"fmt"
	"time"

	"midway/internal/core/domain"
	"midway/internal/core/ports"
	"midway/pkg/tracing"
	"midway/pkg/utils"
	"midway/pkg/validation"

	"go.uber.org/zap"
)

const (
	DefaultMonthsBack = 6
	MaxMonthsBack     = 24
)

// Aggregation says how the samples falling into one month are reduced.
type Aggregation int

const (
	AggregateSum Aggregation = iota
	AggregateAverage
	AggregateCount
)

// Sample is one timestamped observation fed to BuildMonthlySeries.
type Sample struct {
	At    time.Time
	Value float64
}

// BuildMonthlySeries buckets samples into exactly monthsBack calendar months
// (UTC) ending with the month containing now, oldest first. Samples outside
// the window are ignored and empty months report zero.
func BuildMonthlySeries(now time.Time, monthsBack int, samples []Sample, agg Aggregation) []domain.MonthlyPoint {
	if monthsBack <= 0 {
		return []domain.MonthlyPoint{}
	}

	first := utils.AddMonths(utils.StartOfMonth(now), -(monthsBack - 1))
	points := make([]domain.MonthlyPoint, monthsBack)
	index := make(map[string]int, monthsBack)
	for i := range points {
		key := utils.MonthKey(utils.AddMonths(first, i))
		points[i].Period = key
		index[key] = i
	}

	sums := make([]float64, monthsBack)
	for _, s := range samples {
		i, ok := index[utils.MonthKey(s.At)]
		if !ok {
			continue
		}
		sums[i] += s.Value
		points[i].Count++
	}

	for i := range points {
		switch agg {
		case AggregateSum:
			points[i].Value = sums[i]
		case AggregateAverage:
			if points[i].Count > 0 {
				points[i].Value = sums[i] / float64(points[i].Count)
			}
		case AggregateCount:
			points[i].Value = float64(points[i].Count)
		}
	}
	return points
}

// ValidateMonthsBack checks the requested window length.
func ValidateMonthsBack(monthsBack int) error {
	if monthsBack < 1 || monthsBack > MaxMonthsBack {
		fe := validation.FieldErrors{}
		fe["months"] = fmt.Sprintf("months must be between 1 and %d", MaxMonthsBack)
		return fe.Err()
	}
	return nil
}

type analyticsService struct {
	feedback *ResourceService[*domain.Feedback]
	payments *ResourceService[*domain.Payment]
	bookings *ResourceService[*domain.Booking]
	now      func() time.Time
	logger   *zap.SugaredLogger
}

// NewAnalyticsService reads through the resource services so that every
// aggregate sees exactly the records the principal could list.
func NewAnalyticsService(
	feedback *ResourceService[*domain.Feedback],
	payments *ResourceService[*domain.Payment],
	bookings *ResourceService[*domain.Booking],
	logger *zap.SugaredLogger,
) ports.AnalyticsService {
	return &analyticsService{
		feedback: feedback,
		payments: payments,
		bookings: bookings,
		now:      utils.Now,
		logger:   logger,
	}
}

func (s *analyticsService) MonthlyAggregate(ctx context.Context, principal *domain.Principal, metric domain.Metric, monthsBack int) ([]domain.MonthlyPoint, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := ValidateMonthsBack(monthsBack); err != nil {
		return nil, err
	}

	ctx, span := tracing.TraceAggregation(ctx, string(metric), monthsBack)
	defer span.End()

	now := s.now()
	filter := ports.Filter{Since: utils.AddMonths(utils.StartOfMonth(now), -(monthsBack - 1))}

	samples, agg, err := s.samples(ctx, principal, metric, filter)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}

	points := BuildMonthlySeries(now, monthsBack, samples, agg)
	s.logger.Debugw("monthly aggregate computed",
		"metric", metric,
		"months", monthsBack,
		"samples", len(samples),
		"user_id", principal.UserID,
	)
	return points, nil
}

func (s *analyticsService) samples(ctx context.Context, principal *domain.Principal, metric domain.Metric, filter ports.Filter) ([]Sample, Aggregation, error) {
	switch metric {
	case domain.MetricSatisfaction:
		items, err := s.feedback.List(ctx, principal, filter)
		if err != nil {
			return nil, 0, err
		}
		out := make([]Sample, 0, len(items))
		for _, f := range items {
			out = append(out, Sample{At: f.CreatedAt, Value: float64(f.Rating)})
		}
		return out, AggregateAverage, nil

	case domain.MetricRevenue:
		out, err := revenueSamples(ctx, s.payments, principal, filter)
		return out, AggregateSum, err

	case domain.MetricBookings:
		out, err := bookingSamples(ctx, s.bookings, principal, filter)
		return out, AggregateCount, err

	default:
		fe := validation.FieldErrors{}
		fe["metric"] = "metric must be one of satisfaction, revenue, bookings"
		return nil, 0, fe.Err()
	}
}

func revenueSamples(ctx context.Context, payments *ResourceService[*domain.Payment], principal *domain.Principal, filter ports.Filter) ([]Sample, error) {
	filter.Status = string(domain.PaymentCompleted)
	items, err := payments.List(ctx, principal, filter)
	if err != nil {
		return nil, err
	}
	out := make([]Sample, 0, len(items))
	for _, p := range items {
		out = append(out, Sample{At: p.CreatedAt, Value: p.Amount})
	}
	return out, nil
}

func bookingSamples(ctx context.Context, bookings *ResourceService[*domain.Booking], principal *domain.Principal, filter ports.Filter) ([]Sample, error) {
	items, err := bookings.List(ctx, principal, filter)
	if err != nil {
		return nil, err
	}
	out := make([]Sample, 0, len(items))
	for _, b := range items {
		out = append(out, Sample{At: b.CreatedAt, Value: 1})
	}
	return out, nil
}
