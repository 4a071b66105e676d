package profile

import (
	"context"
	"fmt"
	"sync"

	"studytrail/internal/account/models"
	id "studytrail/pkg/domain"
	"studytrail/pkg/platform/sentinel"
)

// Error Contract:
// - Create returns ErrConflict when a profile already exists for the user
// - FindByUserID returns ErrNotFound when no profile exists
// InMemoryStore stores profiles in memory for tests/dev.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.UserID]models.Profile
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[id.UserID]models.Profile)}
}

func (s *InMemoryStore) Create(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[profile.UserID]; exists {
		return fmt.Errorf("profile for user %s: %w", profile.UserID, sentinel.ErrConflict)
	}
	s.profiles[profile.UserID] = *profile
	return nil
}

func (s *InMemoryStore) FindByUserID(_ context.Context, userID id.UserID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[userID]; ok {
		return &p, nil
	}
	return nil, fmt.Errorf("profile for user %s: %w", userID, sentinel.ErrNotFound)
}
