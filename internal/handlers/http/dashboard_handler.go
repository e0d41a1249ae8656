package http

import (
	"net/http"

	"midway/internal/core/domain"
	"midway/internal/core/ports"
	"midway/internal/core/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboard ports.DashboardService
	analytics ports.AnalyticsService
}

func NewDashboardHandler(dashboard ports.DashboardService, analytics ports.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		analytics: analytics,
	}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context(), principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Monthly serves /analytics/:metric?months=N.
func (h *DashboardHandler) Monthly(c *gin.Context) {
	months, err := intQuery(c, "months", services.DefaultMonthsBack)
	if err != nil {
		c.Error(err)
		return
	}

	metric := domain.Metric(c.Param("metric"))
	points, err := h.analytics.MonthlyAggregate(c.Request.Context(), principal(c), metric, months)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metric": metric,
		"months": months,
		"points": points,
	})
}
