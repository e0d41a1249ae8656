package services

import (
	"context"
	"fmt"
	"strings"

	"midway/internal/core/domain"
	"midway/internal/core/ports"
	"midway/pkg/tracing"
	"midway/pkg/utils"
	"midway/pkg/validation"

	"go.uber.org/zap"
)

// UserUpdate lists the account fields an administrator may change. Nil
// fields are left as they are.
type UserUpdate struct {
	Name     *string      `json:"name"`
	Phone    *string      `json:"phone"`
	Role     *domain.Role `json:"role"`
	Active   *bool        `json:"active"`
	Password *string      `json:"password"`
}

// UserService is employee and client account administration.
type UserService struct {
	users    ports.UserRepository
	auth     *AuthService
	recorder MutationRecorder
	logger   *zap.SugaredLogger
}

func NewUserService(users ports.UserRepository, auth *AuthService, recorder MutationRecorder, logger *zap.SugaredLogger) *UserService {
	return &UserService{
		users:    users,
		auth:     auth,
		recorder: recorder,
		logger:   logger,
	}
}

// List returns accounts, optionally narrowed to one role.
func (s *UserService) List(ctx context.Context, role string) ([]*domain.User, error) {
	ctx, span := tracing.TraceResourceOperation(ctx, "list", "user")
	defer span.End()

	if role != "" {
		if _, ok := domain.ParseRole(role); !ok {
			fe := validation.FieldErrors{}
			fe["role"] = "role must be one of ADMIN, MANAGER, CLEANER, CLIENT"
			return nil, fe.Err()
		}
	}
	return s.users.List(ctx, ports.Filter{Status: role})
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.Get(ctx, id)
}

func (s *UserService) Create(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	user, err := s.auth.CreateUser(ctx, name, email, password, role)
	if err != nil {
		return nil, err
	}
	s.record("create")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, actor *domain.Principal, id string, upd UserUpdate) (*domain.User, error) {
	ctx, span := tracing.TraceResourceOperation(ctx, "update", "user")
	defer span.End()

	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	revoke := (upd.Role != nil && *upd.Role != user.Role) ||
		(upd.Active != nil && *upd.Active != user.Active) ||
		upd.Password != nil

	fe := validation.FieldErrors{}
	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Phone != nil {
		user.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.Active != nil {
		user.Active = *upd.Active
	}
	if actor != nil && string(actor.UserID) == id && (!user.Active || user.Role != domain.RoleAdmin) {
		fe["role"] = "administrators cannot demote or deactivate themselves"
	}
	if upd.Password != nil {
		fe.Check("password", validation.ValidatePassword(*upd.Password))
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	if upd.Password != nil {
		hash, err := HashPassword(s.auth.hashParams, *upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	// Revocation precedes the write; if it fails the stored user is unchanged.
	if revoke {
		if err := s.auth.RevokeSessions(ctx, string(user.ID)); err != nil {
			return nil, err
		}
	}

	user.Stamp(utils.Now())
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.record("update")
	s.logger.Infow("user updated", "user_id", user.ID, "role", user.Role, "active", user.Active)
	return user, nil
}

func (s *UserService) record(operation string) {
	if s.recorder != nil {
		s.recorder.RecordMutation("user", operation)
	}
}
