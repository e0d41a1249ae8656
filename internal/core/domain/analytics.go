package domain

// MonthlyPoint is one calendar month of an aggregated metric.
type MonthlyPoint struct {
	Period string  `json:"period"` // YYYY-MM
	Value  float64 `json:"value"`
	Count  int     `json:"count"`
}

type Metric string

const (
	MetricSatisfaction Metric = "satisfaction"
	MetricRevenue      Metric = "revenue"
	MetricBookings     Metric = "bookings"
)

// DashboardStats is the summary shown on the dashboard landing page.
type DashboardStats struct {
	TotalRevenue    float64 `json:"totalRevenue"`
	PendingBookings int     `json:"pendingBookings"`
	PendingTasks    int     `json:"pendingTasks"`
	ActiveCleaners  int     `json:"activeCleaners"`
	Trends          Trends  `json:"trends"`
}

// Trends are month-over-month percentage changes.
type Trends struct {
	Revenue  float64 `json:"revenue"`
	Bookings float64 `json:"bookings"`
}
