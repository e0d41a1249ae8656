package services

import (
	"context"
	"errors"
	"time"

	"midway/internal/core/domain"
	"midway/internal/core/ports"
	"midway/pkg/tracing"
	"midway/pkg/utils"
	"midway/pkg/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scope says how records of an entity are tied to the requesting principal.
type Scope int

const (
	// ScopeNone is company-wide data.
	ScopeNone Scope = iota
	// ScopeOwner restricts every operation to the caller's own records.
	ScopeOwner
	// ScopeOwnerUnlessStaff restricts CLIENT and CLEANER callers to their own
	// records; ADMIN and MANAGER see everything.
	ScopeOwnerUnlessStaff
)

// MutationRecorder counts successful writes.
type MutationRecorder interface {
	RecordMutation(entity, operation string)
}

type ResourceConfig struct {
	Entity string
	Scope  Scope
	// OwnerField is the JSON name of the owner field. When set, a record
	// without an owner fails validation.
	OwnerField string
	Recorder   MutationRecorder
}

// Write is one create or update about to be stored.
type Write[E domain.Entity] struct {
	Principal *domain.Principal
	Entity    E
	Create    bool
	// PreviousStatus is the stored status before an update.
	PreviousStatus string
}

// WriteCheck runs after field validation and before storage. It may adjust
// the entity or reject the write.
type WriteCheck[E domain.Entity] func(ctx context.Context, w Write[E]) error

// ResourceService is the data access layer for one entity. Every method
// takes the principal resolved for the request; scoping is derived from it
// and never from caller-supplied owner fields.
type ResourceService[E domain.Entity] struct {
	cfg    ResourceConfig
	repo   ports.Repository[E]
	checks []WriteCheck[E]
	now    func() time.Time
	logger *zap.SugaredLogger
}

func NewResourceService[E domain.Entity](repo ports.Repository[E], cfg ResourceConfig, logger *zap.SugaredLogger) *ResourceService[E] {
	return &ResourceService[E]{
		cfg:    cfg,
		repo:   repo,
		now:    utils.Now,
		logger: logger,
	}
}

// AddWriteCheck registers check for every later Create and Update.
func (s *ResourceService[E]) AddWriteCheck(check WriteCheck[E]) {
	s.checks = append(s.checks, check)
}

// Entity names the resource, e.g. "location".
func (s *ResourceService[E]) Entity() string {
	return s.cfg.Entity
}

// owner returns the owner id every query must be restricted to, or "" when
// the principal sees all records.
func (s *ResourceService[E]) owner(principal *domain.Principal) string {
	switch s.cfg.Scope {
	case ScopeOwner:
		return string(principal.UserID)
	case ScopeOwnerUnlessStaff:
		if principal.IsStaff() {
			return ""
		}
		return string(principal.UserID)
	default:
		return ""
	}
}

func (s *ResourceService[E]) List(ctx context.Context, principal *domain.Principal, filter ports.Filter) ([]E, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	ctx, span := tracing.TraceResourceOperation(ctx, "list", s.cfg.Entity)
	defer span.End()

	if owner := s.owner(principal); owner != "" || s.cfg.Scope == ScopeNone {
		filter.OwnerID = owner
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}
	return items, nil
}

func (s *ResourceService[E]) Count(ctx context.Context, principal *domain.Principal, filter ports.Filter) (int64, error) {
	if principal == nil {
		return 0, domain.ErrUnauthenticated
	}
	if owner := s.owner(principal); owner != "" || s.cfg.Scope == ScopeNone {
		filter.OwnerID = owner
	}
	return s.repo.Count(ctx, filter)
}

// Get returns domain.ErrNotFound both for missing records and for records
// the principal does not own.
func (s *ResourceService[E]) Get(ctx context.Context, principal *domain.Principal, id string) (E, error) {
	var zero E
	if principal == nil {
		return zero, domain.ErrUnauthenticated
	}
	ctx, span := tracing.TraceResourceOperation(ctx, "get", s.cfg.Entity)
	defer span.End()
	tracing.AddSpanAttributes(ctx, tracing.EntityIDKey.String(id))

	return s.getScoped(ctx, principal, id)
}

func (s *ResourceService[E]) getScoped(ctx context.Context, principal *domain.Principal, id string) (E, error) {
	var zero E
	entity, err := s.repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if owner := s.owner(principal); owner != "" && entity.OwnerID() != owner {
		return zero, domain.ErrNotFound
	}
	return entity, nil
}

func (s *ResourceService[E]) Create(ctx context.Context, principal *domain.Principal, entity E) (E, error) {
	var zero E
	if principal == nil {
		return zero, domain.ErrUnauthenticated
	}
	ctx, span := tracing.TraceResourceOperation(ctx, "create", s.cfg.Entity)
	defer span.End()

	if owner := s.owner(principal); owner != "" {
		entity.SetOwnerID(owner)
	}
	if err := s.validate(entity); err != nil {
		return zero, err
	}
	if err := s.runChecks(ctx, Write[E]{Principal: principal, Entity: entity, Create: true}); err != nil {
		return zero, err
	}

	entity.SetID(uuid.New().String())
	entity.Stamp(s.now())

	if err := s.repo.Create(ctx, entity); err != nil {
		tracing.RecordError(ctx, err)
		return zero, err
	}

	s.recordMutation("create")
	s.logger.Infow("resource created",
		"entity", s.cfg.Entity,
		"id", entity.GetID(),
		"user_id", principal.UserID,
	)
	return entity, nil
}

// Update loads the record, lets apply modify it, then re-validates and
// stores it. The id and, for scoped callers, the owner cannot be changed.
func (s *ResourceService[E]) Update(ctx context.Context, principal *domain.Principal, id string, apply func(E) error) (E, error) {
	var zero E
	if principal == nil {
		return zero, domain.ErrUnauthenticated
	}
	ctx, span := tracing.TraceResourceOperation(ctx, "update", s.cfg.Entity)
	defer span.End()
	tracing.AddSpanAttributes(ctx, tracing.EntityIDKey.String(id))

	entity, err := s.getScoped(ctx, principal, id)
	if err != nil {
		return zero, err
	}

	originalOwner := entity.OwnerID()
	previousStatus := entity.StatusValue()
	if err := apply(entity); err != nil {
		return zero, err
	}
	entity.SetID(id)
	if s.owner(principal) != "" {
		entity.SetOwnerID(originalOwner)
	}

	if err := s.validate(entity); err != nil {
		return zero, err
	}
	if err := s.runChecks(ctx, Write[E]{Principal: principal, Entity: entity, PreviousStatus: previousStatus}); err != nil {
		return zero, err
	}
	entity.Stamp(s.now())

	if err := s.repo.Update(ctx, entity); err != nil {
		tracing.RecordError(ctx, err)
		return zero, err
	}

	s.recordMutation("update")
	s.logger.Infow("resource updated",
		"entity", s.cfg.Entity,
		"id", id,
		"user_id", principal.UserID,
	)
	return entity, nil
}

func (s *ResourceService[E]) Delete(ctx context.Context, principal *domain.Principal, id string) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	ctx, span := tracing.TraceResourceOperation(ctx, "delete", s.cfg.Entity)
	defer span.End()
	tracing.AddSpanAttributes(ctx, tracing.EntityIDKey.String(id))

	if _, err := s.getScoped(ctx, principal, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		tracing.RecordError(ctx, err)
		return err
	}

	s.recordMutation("delete")
	s.logger.Infow("resource deleted",
		"entity", s.cfg.Entity,
		"id", id,
		"user_id", principal.UserID,
	)
	return nil
}

func (s *ResourceService[E]) validate(entity E) error {
	fe := validation.FieldErrors{}
	if err := entity.Validate(); err != nil {
		var verr *validation.Error
		if !errors.As(err, &verr) {
			return err
		}
		for field, reason := range verr.Fields {
			fe[field] = reason
		}
	}
	if s.cfg.OwnerField != "" && entity.OwnerID() == "" {
		fe.Require(s.cfg.OwnerField, "")
	}
	return fe.Err()
}

func (s *ResourceService[E]) runChecks(ctx context.Context, w Write[E]) error {
	for _, check := range s.checks {
		if err := check(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

func (s *ResourceService[E]) recordMutation(operation string) {
	if s.cfg.Recorder != nil {
		s.cfg.Recorder.RecordMutation(s.cfg.Entity, operation)
	}
}
