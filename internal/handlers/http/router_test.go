package http

import (
	"net/http"
	"sort"
	"strings"
	"testing"

	"midway/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableHandlers() *Handlers {
	loc := NewResourceHandler[*domain.Location](nil, nil)
	return &Handlers{
		Auth:          &AuthHandler{},
		Users:         &UserHandler{},
		Dashboard:     &DashboardHandler{},
		Health:        &HealthHandler{},
		Metrics:       func(c *gin.Context) {},
		Locations:     loc,
		Services:      loc,
		Tasks:         loc,
		Bookings:      loc,
		Payments:      loc,
		Feedback:      loc,
		Documents:     loc,
		Notifications: loc,
		Inventory:     loc,
	}
}

func TestRoutes_EachEndpointRegisteredOnce(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range tableHandlers().Routes() {
		key := r.Method + " " + r.Path
		assert.False(t, seen[key], "duplicate route %s", key)
		seen[key] = true
		require.NotNil(t, r.Handler, key)
	}
}

func TestRoutes_OnlyAuthEntryPointsAndOpsArePublic(t *testing.T) {
	public := map[string]bool{
		"POST /api/v1/auth/register": true,
		"POST /api/v1/auth/login":    true,
		"POST /api/v1/auth/logout":   true,
		"GET /health":                true,
		"GET /ready":                 true,
		"GET /metrics":               true,
	}

	for _, r := range tableHandlers().Routes() {
		key := r.Method + " " + r.Path
		assert.Equal(t, public[key], r.Policy.IsPublic(), key)
	}
}

func TestRoutes_Policies(t *testing.T) {
	policies := map[string]string{}
	for _, r := range tableHandlers().Routes() {
		policies[r.Method+" "+r.Path] = r.Policy.String()
	}

	cases := map[string][]domain.Role{
		"POST /api/v1/locations":        {domain.RoleAdmin, domain.RoleManager},
		"GET /api/v1/tasks":             {domain.RoleAdmin, domain.RoleManager, domain.RoleCleaner},
		"PUT /api/v1/tasks/:id":         {domain.RoleAdmin, domain.RoleManager, domain.RoleCleaner},
		"DELETE /api/v1/bookings/:id":   {domain.RoleAdmin, domain.RoleManager},
		"POST /api/v1/payments":         {domain.RoleAdmin, domain.RoleManager, domain.RoleClient},
		"GET /api/v1/inventory":         {domain.RoleAdmin, domain.RoleManager, domain.RoleCleaner},
		"POST /api/v1/users":            {domain.RoleAdmin},
		"GET /api/v1/users/:id":         {domain.RoleAdmin, domain.RoleManager},
		"GET /api/v1/notifications/:id": nil,
		"GET /api/v1/dashboard/stats":   nil,
	}

	for route, roles := range cases {
		t.Run(route, func(t *testing.T) {
			got, ok := policies[route]
			require.True(t, ok, "route missing")
			if roles == nil {
				assert.Equal(t, "authenticated", got)
				return
			}
			names := make([]string, len(roles))
			for i, r := range roles {
				names[i] = string(r)
			}
			sort.Strings(names)
			assert.Equal(t, "roles("+strings.Join(names, ",")+")", got)
		})
	}
}

func TestRoutes_MetricsOptional(t *testing.T) {
	h := tableHandlers()
	h.Metrics = nil

	for _, r := range h.Routes() {
		assert.False(t, r.Method == http.MethodGet && r.Path == "/metrics")
	}
}
