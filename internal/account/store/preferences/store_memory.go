package preferences

import (
	"context"
	"fmt"
	"sync"

	"studytrail/internal/account/models"
	id "studytrail/pkg/domain"
	"studytrail/pkg/platform/sentinel"
)

// InMemoryStore stores preferences in memory for tests/dev.
type InMemoryStore struct {
	mu    sync.RWMutex
	prefs map[id.UserID]models.Preferences
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{prefs: make(map[id.UserID]models.Preferences)}
}

func (s *InMemoryStore) Create(_ context.Context, prefs *models.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.prefs[prefs.UserID]; exists {
		return fmt.Errorf("preferences for user %s: %w", prefs.UserID, sentinel.ErrConflict)
	}
	s.prefs[prefs.UserID] = *prefs
	return nil
}

func (s *InMemoryStore) FindByUserID(_ context.Context, userID id.UserID) (*models.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.prefs[userID]; ok {
		return &p, nil
	}
	return nil, fmt.Errorf("preferences for user %s: %w", userID, sentinel.ErrNotFound)
}
