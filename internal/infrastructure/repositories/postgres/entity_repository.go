package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"midway/internal/core/domain"
	"midway/internal/core/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// StatusScope narrows a query to records whose StatusValue equals value.
type StatusScope func(tx *gorm.DB, value string) *gorm.DB

// StatusColumn compares value with a text column.
func StatusColumn(column string) StatusScope {
	return func(tx *gorm.DB, value string) *gorm.DB {
		return tx.Where(column+" = ?", value)
	}
}

// StatusFlag maps two status names onto a boolean column.
func StatusFlag(column, whenTrue, whenFalse string) StatusScope {
	return func(tx *gorm.DB, value string) *gorm.DB {
		switch value {
		case whenTrue:
			return tx.Where(column+" = ?", true)
		case whenFalse:
			return tx.Where(column+" = ?", false)
		default:
			return tx.Where("1 = 0")
		}
	}
}

// Columns tells the repository how ports.Filter maps onto a table. An empty
// OwnerColumn or nil Status means the entity has no such field, so a filter
// on it matches nothing.
type Columns struct {
	OwnerColumn string
	Status      StatusScope
}

type GormRepository[E domain.Entity] struct {
	db    *gorm.DB
	newFn func() E
	cols  Columns
}

func NewGormRepository[E domain.Entity](db *gorm.DB, newFn func() E, cols Columns) *GormRepository[E] {
	return &GormRepository[E]{db: db, newFn: newFn, cols: cols}
}

func (r *GormRepository[E]) scoped(ctx context.Context, filter ports.Filter) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(r.newFn())

	if filter.OwnerID != "" {
		if r.cols.OwnerColumn == "" {
			tx = tx.Where("1 = 0")
		} else {
			tx = tx.Where(r.cols.OwnerColumn+" = ?", filter.OwnerID)
		}
	}
	if filter.Status != "" {
		if r.cols.Status == nil {
			tx = tx.Where("1 = 0")
		} else {
			tx = r.cols.Status(tx, filter.Status)
		}
	}
	if !filter.Since.IsZero() {
		tx = tx.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		tx = tx.Where("created_at < ?", filter.Until)
	}
	return tx
}

func (r *GormRepository[E]) List(ctx context.Context, filter ports.Filter) ([]E, error) {
	var out []E
	err := r.scoped(ctx, filter).Order("created_at DESC").Order("id").Find(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	if out == nil {
		out = []E{}
	}
	return out, nil
}

func (r *GormRepository[E]) Count(ctx context.Context, filter ports.Filter) (int64, error) {
	var n int64
	if err := r.scoped(ctx, filter).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *GormRepository[E]) Get(ctx context.Context, id string) (E, error) {
	entity := r.newFn()
	if err := r.db.WithContext(ctx).First(entity, "id = ?", id).Error; err != nil {
		var zero E
		return zero, translate(err)
	}
	return entity, nil
}

func (r *GormRepository[E]) Create(ctx context.Context, entity E) error {
	return translate(r.db.WithContext(ctx).Create(entity).Error)
}

// Update writes every column, zero values included.
func (r *GormRepository[E]) Update(ctx context.Context, entity E) error {
	res := r.db.WithContext(ctx).Model(entity).Select("*").Omit("created_at").Updates(entity)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormRepository[E]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(r.newFn(), "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// translate maps gorm errors onto domain errors. Only failures to reach the
// database become ErrUpstreamUnavailable; anything else stays unclassified.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", domain.ErrAlreadyExists, err)
	case errors.Is(err, context.Canceled):
		return err
	case isConnectionError(err):
		return fmt.Errorf("%w: postgres: %v", domain.ErrUpstreamUnavailable, err)
	default:
		return fmt.Errorf("postgres: %w", err)
	}
}

// isConnectionError reports network failures, timeouts and the SQLSTATE
// classes for lost connections (08) and server shutdown (57P).
func isConnectionError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P")
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		pgconn.Timeout(err)
}
