package ports

import (
	"context"
	"net/http"

	"midway/internal/core/domain"
)

// SessionResolver turns an inbound request into a Principal. A nil Principal
// with a nil error means the request is anonymous.
type SessionResolver interface {
	Resolve(ctx context.Context, r *http.Request) (*domain.Principal, error)
}

type AnalyticsService interface {
	MonthlyAggregate(ctx context.Context, principal *domain.Principal, metric domain.Metric, monthsBack int) ([]domain.MonthlyPoint, error)
}

type DashboardService interface {
	Stats(ctx context.Context, principal *domain.Principal) (*domain.DashboardStats, error)
}
