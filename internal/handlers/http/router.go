package http

import (
	"net/http"

	"midway/internal/core/domain"
	"midway/internal/core/policy"
	"midway/internal/core/ports"
	"midway/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1"

// Route binds one endpoint to the policy guarding it.
type Route struct {
	Method  string
	Path    string
	Policy  policy.Policy
	Handler gin.HandlerFunc
}

// Handlers is everything the route table dispatches to. Metrics may be nil
// when Prometheus is disabled.
type Handlers struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Dashboard *DashboardHandler
	Health    *HealthHandler
	Metrics   gin.HandlerFunc

	Locations     ports.ResourceHandler
	Services      ports.ResourceHandler
	Tasks         ports.ResourceHandler
	Bookings      ports.ResourceHandler
	Payments      ports.ResourceHandler
	Feedback      ports.ResourceHandler
	Documents     ports.ResourceHandler
	Notifications ports.ResourceHandler
	Inventory     ports.ResourceHandler
}

// access lists the policy of each operation on one resource collection.
type access struct {
	read, create, update, remove policy.Policy
}

// Routes is the complete route table.
func (h *Handlers) Routes() []Route {
	var (
		public  = policy.Public()
		anyone  = policy.AnyAuthenticated()
		staff   = policy.Staff()
		admin   = policy.Roles(domain.RoleAdmin)
		workers = policy.Roles(domain.RoleAdmin, domain.RoleManager, domain.RoleCleaner)
		payers  = policy.Roles(domain.RoleAdmin, domain.RoleManager, domain.RoleClient)
	)

	routes := []Route{
		{http.MethodPost, apiPrefix + "/auth/register", public, h.Auth.Register},
		{http.MethodPost, apiPrefix + "/auth/login", public, h.Auth.Login},
		{http.MethodPost, apiPrefix + "/auth/logout", public, h.Auth.Logout},
		{http.MethodGet, apiPrefix + "/auth/me", anyone, h.Auth.Me},

		{http.MethodGet, apiPrefix + "/users", staff, h.Users.List},
		{http.MethodGet, apiPrefix + "/users/:id", staff, h.Users.Get},
		{http.MethodPost, apiPrefix + "/users", admin, h.Users.Create},
		{http.MethodPut, apiPrefix + "/users/:id", admin, h.Users.Update},

		{http.MethodGet, apiPrefix + "/dashboard/stats", anyone, h.Dashboard.Stats},
		{http.MethodGet, apiPrefix + "/analytics/:metric", anyone, h.Dashboard.Monthly},

		{http.MethodGet, "/health", public, h.Health.Health},
		{http.MethodGet, "/ready", public, h.Health.Ready},
	}
	if h.Metrics != nil {
		routes = append(routes, Route{http.MethodGet, "/metrics", public, h.Metrics})
	}

	routes = append(routes, collection("/locations", h.Locations, access{anyone, staff, staff, staff})...)
	routes = append(routes, collection("/services", h.Services, access{anyone, staff, staff, staff})...)
	routes = append(routes, collection("/tasks", h.Tasks, access{workers, staff, workers, staff})...)
	routes = append(routes, collection("/bookings", h.Bookings, access{anyone, anyone, anyone, staff})...)
	routes = append(routes, collection("/payments", h.Payments, access{anyone, payers, staff, staff})...)
	routes = append(routes, collection("/feedback", h.Feedback, access{anyone, anyone, staff, staff})...)
	routes = append(routes, collection("/documents", h.Documents, access{anyone, anyone, anyone, anyone})...)
	routes = append(routes, collection("/notifications", h.Notifications, access{anyone, anyone, anyone, anyone})...)
	routes = append(routes, collection("/inventory", h.Inventory, access{workers, staff, staff, staff})...)

	return routes
}

func collection(path string, h ports.ResourceHandler, a access) []Route {
	base := apiPrefix + path
	return []Route{
		{http.MethodGet, base, a.read, h.List},
		{http.MethodGet, base + "/:id", a.read, h.Get},
		{http.MethodPost, base, a.create, h.Create},
		{http.MethodPut, base + "/:id", a.update, h.Update},
		{http.MethodDelete, base + "/:id", a.remove, h.Delete},
	}
}

// Register mounts routes on router, each behind its own guard.
func Register(router gin.IRoutes, routes []Route, resolver ports.SessionResolver, recorder middleware.DecisionRecorder) {
	for _, r := range routes {
		router.Handle(r.Method, r.Path, middleware.Guard(resolver, r.Policy, recorder), r.Handler)
	}
}
