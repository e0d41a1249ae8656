package memory

import (
	"context"
	"sync"
	"time"

	"midway/internal/core/ports"
	"midway/pkg/utils"
)

type subjectRevocation struct {
	at    time.Time
	until time.Time
}

type MemoryRevocationStore struct {
	revoked  map[string]time.Time
	subjects map[string]subjectRevocation
	mu       sync.Mutex
}

func NewMemoryRevocationStore() ports.RevocationStore {
	return &MemoryRevocationStore{
		revoked:  make(map[string]time.Time),
		subjects: make(map[string]subjectRevocation),
	}
}

func (s *MemoryRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[tokenID] = until
	s.evictExpired(utils.Now())
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !utils.Now().Before(until) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

func (s *MemoryRevocationStore) RevokeSubject(ctx context.Context, subject string, at, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subjects[subject] = subjectRevocation{at: at, until: until}
	s.evictExpired(utils.Now())
	return nil
}

func (s *MemoryRevocationStore) RevokedSince(ctx context.Context, subject string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rev, ok := s.subjects[subject]
	if !ok {
		return time.Time{}, nil
	}
	if !utils.Now().Before(rev.until) {
		delete(s.subjects, subject)
		return time.Time{}, nil
	}
	return rev.at, nil
}

// evictExpired drops entries whose token would be rejected as expired anyway.
func (s *MemoryRevocationStore) evictExpired(now time.Time) {
	for id, until := range s.revoked {
		if !now.Before(until) {
			delete(s.revoked, id)
		}
	}
	for subject, rev := range s.subjects {
		if !now.Before(rev.until) {
			delete(s.subjects, subject)
		}
	}
}
