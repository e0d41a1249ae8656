package memory

import (
	"context"
	"fmt"

	"midway/internal/core/domain"
	"midway/internal/core/ports"
)

// MemoryUserRepository keeps emails unique the way the users table's unique
// index does.
type MemoryUserRepository struct {
	*MemoryRepository[*domain.User]
}

func NewMemoryUserRepository() ports.UserRepository {
	return &MemoryUserRepository{
		MemoryRepository: NewMemoryRepository[*domain.User](),
	}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[string(user.ID)]; exists {
		return fmt.Errorf("id %s: %w", user.ID, domain.ErrAlreadyExists)
	}
	for _, u := range r.items {
		if u.Email == user.Email {
			return fmt.Errorf("email %s: %w", user.Email, domain.ErrAlreadyExists)
		}
	}

	r.items[string(user.ID)] = user.Clone()
	return nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}
