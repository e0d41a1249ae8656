// Package app assembles services, handlers and the gin engine on top of a
// set of repositories.
package app

import (
	"fmt"

	"midway/internal/core/domain"
	"midway/internal/core/ports"
	"midway/internal/core/services"
	httphandlers "midway/internal/handlers/http"
	"midway/internal/infrastructure/middleware"
	"midway/internal/infrastructure/monitoring"
	"midway/internal/infrastructure/repositories"
	"midway/pkg/config"
	"midway/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	Config       *config.Config
	Repositories *repositories.Repositories
	// Health defaults to a checker with no probes.
	Health *monitoring.HealthChecker
	Logger *zap.Logger
	// HashParams defaults to services.DefaultArgon.
	HashParams services.ArgonParams
}

type App struct {
	Router    *gin.Engine
	Auth      *services.AuthService
	Resolver  ports.SessionResolver
	Collector *monitoring.PrometheusCollector
}

func New(opts Options) (*App, error) {
	cfg := opts.Config
	repos := opts.Repositories
	log := opts.Logger.Sugar()

	health := opts.Health
	if health == nil {
		health = monitoring.NewHealthChecker()
	}
	collector := monitoring.NewPrometheusCollector()

	authService := services.NewAuthService(repos.Users, repos.Revocations, services.AuthConfig{
		JWTSecret:  cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.Issuer,
		TokenTTL:   cfg.Auth.TokenTTL,
		HashParams: opts.HashParams,
	}, log)
	resolver := services.NewSessionResolver(authService, repos.Revocations, log)
	userService := services.NewUserService(repos.Users, authService, collector, log)

	locations := services.NewResourceService(repos.Locations, services.ResourceConfig{
		Entity: "location", Scope: services.ScopeNone, Recorder: collector,
	}, log)
	catalogue := services.NewResourceService(repos.Services, services.ResourceConfig{
		Entity: "service", Scope: services.ScopeNone, Recorder: collector,
	}, log)
	inventory := services.NewResourceService(repos.Inventory, services.ResourceConfig{
		Entity: "inventory", Scope: services.ScopeNone, Recorder: collector,
	}, log)
	tasks := services.NewResourceService(repos.Tasks, services.ResourceConfig{
		Entity: "task", Scope: services.ScopeOwnerUnlessStaff, Recorder: collector,
	}, log)
	bookings := services.NewResourceService(repos.Bookings, services.ResourceConfig{
		Entity: "booking", Scope: services.ScopeOwnerUnlessStaff, OwnerField: "clientId", Recorder: collector,
	}, log)
	payments := services.NewResourceService(repos.Payments, services.ResourceConfig{
		Entity: "payment", Scope: services.ScopeOwnerUnlessStaff, OwnerField: "clientId", Recorder: collector,
	}, log)
	feedback := services.NewResourceService(repos.Feedback, services.ResourceConfig{
		Entity: "feedback", Scope: services.ScopeOwnerUnlessStaff, OwnerField: "clientId", Recorder: collector,
	}, log)
	bookings.AddWriteCheck(services.BookingStatusCheck())
	payments.AddWriteCheck(services.PaymentCheck(bookings))
	feedback.AddWriteCheck(services.FeedbackCheck(bookings))

	documents := services.NewResourceService(repos.Documents, services.ResourceConfig{
		Entity: "document", Scope: services.ScopeOwner, Recorder: collector,
	}, log)
	notifications := services.NewResourceService(repos.Notifications, services.ResourceConfig{
		Entity: "notification", Scope: services.ScopeOwner, Recorder: collector,
	}, log)

	analytics := services.NewAnalyticsService(feedback, payments, bookings, log)
	dashboard := services.NewDashboardService(payments, bookings, tasks, repos.Users, log)

	handlers := &httphandlers.Handlers{
		Auth:      httphandlers.NewAuthHandler(authService, cfg.Auth.CookieSecure, collector),
		Users:     httphandlers.NewUserHandler(userService),
		Dashboard: httphandlers.NewDashboardHandler(dashboard, analytics),
		Health:    httphandlers.NewHealthHandler(health),

		Locations:     httphandlers.NewResourceHandler(locations, func() *domain.Location { return &domain.Location{} }),
		Services:      httphandlers.NewResourceHandler(catalogue, func() *domain.Service { return &domain.Service{} }),
		Tasks:         httphandlers.NewResourceHandler(tasks, func() *domain.Task { return &domain.Task{} }),
		Bookings:      httphandlers.NewResourceHandler(bookings, func() *domain.Booking { return &domain.Booking{} }),
		Payments:      httphandlers.NewResourceHandler(payments, func() *domain.Payment { return &domain.Payment{} }),
		Feedback:      httphandlers.NewResourceHandler(feedback, func() *domain.Feedback { return &domain.Feedback{} }),
		Documents:     httphandlers.NewResourceHandler(documents, func() *domain.Document { return &domain.Document{} }),
		Notifications: httphandlers.NewResourceHandler(notifications, func() *domain.Notification { return &domain.Notification{} }),
		Inventory:     httphandlers.NewResourceHandler(inventory, func() *domain.InventoryItem { return &domain.InventoryItem{} }),
	}
	if cfg.Monitoring.PrometheusEnabled {
		handlers.Metrics = gin.WrapH(collector.Handler())
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(
		middleware.RecoveryMiddleware(log),
		middleware.RequestLogger(logger.NewContextLogger(opts.Logger), collector),
		middleware.TracingMiddleware(),
		middleware.CORS(cfg.Auth.AllowedOrigins),
		middleware.NewHTTPRateLimitMiddleware(cfg),
		middleware.ErrorHandlerMiddleware(log),
	)
	httphandlers.Register(router, handlers.Routes(), resolver, collector)

	return &App{
		Router:    router,
		Auth:      authService,
		Resolver:  resolver,
		Collector: collector,
	}, nil
}
