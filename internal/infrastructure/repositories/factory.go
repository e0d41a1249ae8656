package repositories

import (
	"context"
	"errors"

	"midway/internal/core/domain"
	"midway/internal/core/ports"
	"midway/internal/infrastructure/repositories/memory"
	pgrepo "midway/internal/infrastructure/repositories/postgres"
	redisrepo "midway/internal/infrastructure/repositories/redis"
	"midway/pkg/circuitbreaker"
	"midway/pkg/config"
	"midway/pkg/retry"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// connectRetry governs the initial connection to each configured backend.
var connectRetry = retry.DefaultConfig()

// Repositories is one storage backend's full set of repositories.
type Repositories struct {
	Users         ports.UserRepository
	Revocations   ports.RevocationStore
	Locations     ports.Repository[*domain.Location]
	Services      ports.Repository[*domain.Service]
	Tasks         ports.Repository[*domain.Task]
	Bookings      ports.Repository[*domain.Booking]
	Payments      ports.Repository[*domain.Payment]
	Feedback      ports.Repository[*domain.Feedback]
	Documents     ports.Repository[*domain.Document]
	Notifications ports.Repository[*domain.Notification]
	Inventory     ports.Repository[*domain.InventoryItem]
}

// RepositoryFactory creates repositories with fallback support: Postgres when
// a DSN is configured, else Redis when enabled, else memory. The revocation
// store lives in Redis whenever Redis is reachable.
type RepositoryFactory struct {
	backend     string
	store       *pgrepo.Store
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		backend: BackendMemory,
		logger:  logger,
	}

	if cfg.Database.DSN != "" {
		store, err := retry.Do(context.Background(), connectRetry, func(context.Context) (*pgrepo.Store, error) {
			return pgrepo.NewStore(cfg.Database, logger)
		}, retryLogger(logger, "postgres"))
		if err != nil {
			logger.Warnw("failed to connect to Postgres, falling back",
				"error", err,
			)
		} else {
			factory.store = store
			factory.backend = BackendPostgres
		}
	}

	if cfg.Redis.Enabled {
		client, err := retry.Do(context.Background(), connectRetry, func(context.Context) (*redis.Client, error) {
			return redisrepo.NewRedisClient(
				cfg.Redis.Address,
				cfg.Redis.Password,
				cfg.Redis.DB,
				cfg.Redis.PoolSize,
				logger,
			)
		}, retryLogger(logger, "redis"))
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory",
				"error", err,
			)
		} else {
			factory.redisClient = client
			if factory.backend == BackendMemory {
				factory.backend = BackendRedis
			}
		}
	}

	logger.Infow("using repositories", "backend", factory.backend, "revocations_in_redis", factory.redisClient != nil)
	return factory, nil
}

// Backend names the store serving entity repositories.
func (f *RepositoryFactory) Backend() string {
	return f.backend
}

// Create builds every repository on the selected backend.
func (f *RepositoryFactory) Create() *Repositories {
	var repos *Repositories
	switch f.backend {
	case BackendPostgres:
		db := f.store.DB
		repos = &Repositories{
			Users:         pgrepo.NewGormUserRepository(db),
			Locations:     pgrepo.NewLocationRepository(db),
			Services:      pgrepo.NewServiceRepository(db),
			Tasks:         pgrepo.NewTaskRepository(db),
			Bookings:      pgrepo.NewBookingRepository(db),
			Payments:      pgrepo.NewPaymentRepository(db),
			Feedback:      pgrepo.NewFeedbackRepository(db),
			Documents:     pgrepo.NewDocumentRepository(db),
			Notifications: pgrepo.NewNotificationRepository(db),
			Inventory:     pgrepo.NewInventoryRepository(db),
		}
	case BackendRedis:
		c := f.redisClient
		repos = &Repositories{
			Users:         redisrepo.NewRedisUserRepository(c),
			Locations:     redisEntity(c, "location", func() *domain.Location { return &domain.Location{} }),
			Services:      redisEntity(c, "service", func() *domain.Service { return &domain.Service{} }),
			Tasks:         redisEntity(c, "task", func() *domain.Task { return &domain.Task{} }),
			Bookings:      redisEntity(c, "booking", func() *domain.Booking { return &domain.Booking{} }),
			Payments:      redisEntity(c, "payment", func() *domain.Payment { return &domain.Payment{} }),
			Feedback:      redisEntity(c, "feedback", func() *domain.Feedback { return &domain.Feedback{} }),
			Documents:     redisEntity(c, "document", func() *domain.Document { return &domain.Document{} }),
			Notifications: redisEntity(c, "notification", func() *domain.Notification { return &domain.Notification{} }),
			Inventory:     redisEntity(c, "inventory", func() *domain.InventoryItem { return &domain.InventoryItem{} }),
		}
	default:
		repos = NewMemoryRepositories()
	}

	if f.redisClient != nil {
		breakerCfg := circuitbreaker.DefaultConfig()
		breakerCfg.Tolerate = func(err error) bool { return errors.Is(err, context.Canceled) }
		breaker := circuitbreaker.New(breakerCfg)
		breaker.OnStateChange(func(from, to circuitbreaker.State) {
			f.logger.Warnw("revocation store breaker changed state", "from", from.String(), "to", to.String())
		})
		repos.Revocations = NewGuardedRevocationStore(redisrepo.NewRedisRevocationStore(f.redisClient), breaker)
	} else if repos.Revocations == nil {
		repos.Revocations = memory.NewMemoryRevocationStore()
	}
	return repos
}

// NewMemoryRepositories is the in-process backend used for development and tests.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Users:         memory.NewMemoryUserRepository(),
		Revocations:   memory.NewMemoryRevocationStore(),
		Locations:     memory.NewMemoryRepository[*domain.Location](),
		Services:      memory.NewMemoryRepository[*domain.Service](),
		Tasks:         memory.NewMemoryRepository[*domain.Task](),
		Bookings:      memory.NewMemoryRepository[*domain.Booking](),
		Payments:      memory.NewMemoryRepository[*domain.Payment](),
		Feedback:      memory.NewMemoryRepository[*domain.Feedback](),
		Documents:     memory.NewMemoryRepository[*domain.Document](),
		Notifications: memory.NewMemoryRepository[*domain.Notification](),
		Inventory:     memory.NewMemoryRepository[*domain.InventoryItem](),
	}
}

func redisEntity[E domain.Entity](c *redis.Client, entity string, newFn func() E) ports.Repository[E] {
	return redisrepo.NewRedisRepository(c, entity, redisrepo.JSONCodec(newFn))
}

func retryLogger(logger *zap.SugaredLogger, backend string) func(int, error) {
	return func(attempt int, err error) {
		logger.Warnw("backend connection failed, retrying",
			"backend", backend,
			"attempt", attempt,
			"error", err,
		)
	}
}

// Close closes Postgres and Redis connections if used
func (f *RepositoryFactory) Close() error {
	var firstErr error
	if f.store != nil {
		firstErr = f.store.Close()
	}
	if f.redisClient != nil {
		if err := redisrepo.CloseRedisClient(f.redisClient); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// HealthCheck pings every connected backend.
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	if f.store != nil {
		if err := f.store.Ping(ctx); err != nil {
			return err
		}
	}
	if f.redisClient != nil {
		return f.redisClient.Ping(ctx).Err()
	}
	return nil
}
