package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"midway/internal/core/domain"
	"midway/internal/core/ports"
)

// Cloneable entities can be copied so callers never share the stored value.
type Cloneable[E any] interface {
	domain.Entity
	Clone() E
}

type MemoryRepository[E Cloneable[E]] struct {
	items map[string]E
	mu    sync.RWMutex
}

func NewMemoryRepository[E Cloneable[E]]() *MemoryRepository[E] {
	return &MemoryRepository[E]{
		items: make(map[string]E),
	}
}

var _ ports.Repository[*domain.Location] = (*MemoryRepository[*domain.Location])(nil)

func (r *MemoryRepository[E]) Create(ctx context.Context, entity E) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := entity.GetID()
	if _, exists := r.items[id]; exists {
		return fmt.Errorf("id %s: %w", id, domain.ErrAlreadyExists)
	}

	r.items[id] = entity.Clone()
	return nil
}

func (r *MemoryRepository[E]) Get(ctx context.Context, id string) (E, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		var zero E
		return zero, domain.ErrNotFound
	}
	return item.Clone(), nil
}

func (r *MemoryRepository[E]) Update(ctx context.Context, entity E) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := entity.GetID()
	if _, exists := r.items[id]; !exists {
		return domain.ErrNotFound
	}

	r.items[id] = entity.Clone()
	return nil
}

func (r *MemoryRepository[E]) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return domain.ErrNotFound
	}

	delete(r.items, id)
	return nil
}

// List returns matching records, newest first.
func (r *MemoryRepository[E]) List(ctx context.Context, filter ports.Filter) ([]E, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]E, 0, len(r.items))
	for _, item := range r.items {
		if filter.Matches(item) {
			result = append(result, item.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		ci, cj := result[i].CreatedTime(), result[j].CreatedTime()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return result[i].GetID() < result[j].GetID()
	})
	return result, nil
}

func (r *MemoryRepository[E]) Count(ctx context.Context, filter ports.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, item := range r.items {
		if filter.Matches(item) {
			n++
		}
	}
	return n, nil
}
