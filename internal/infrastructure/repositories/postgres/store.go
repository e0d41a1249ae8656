package postgres

import (
	"context"
	"fmt"
	"time"

	"midway/internal/core/domain"
	"midway/pkg/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models lists every table AutoMigrate manages.
var Models = []any{
	&domain.User{},
	&domain.Location{},
	&domain.Service{},
	&domain.Task{},
	&domain.Booking{},
	&domain.Payment{},
	&domain.Feedback{},
	&domain.Document{},
	&domain.Notification{},
	&domain.InventoryItem{},
}

type Store struct {
	DB *gorm.DB
}

// NewStore connects to Postgres, sizes the pool and optionally migrates.
func NewStore(cfg config.DatabaseConfig, logger *zap.SugaredLogger) (*Store, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if cfg.AutoMigrate {
		if err := gdb.WithContext(ctx).AutoMigrate(Models...); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		logger.Infow("database schema migrated", "tables", len(Models))
	}

	logger.Infow("connected to Postgres",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)
	return &Store{DB: gdb}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
