package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"studytrail/internal/activity/models"
	id "studytrail/pkg/domain"
	"studytrail/pkg/platform/sentinel"
)

var errNilEvent = errors.New("event is nil")

// InMemoryStore keeps the audit trail in process memory for tests and dev.
// Details are held as JSON so reads observe what a database would return.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []storedEvent
	ids    map[id.EventID]struct{}
}

type storedEvent struct {
	event   models.Event
	details json.RawMessage
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{ids: make(map[id.EventID]struct{})}
}

func (s *InMemoryStore) Append(_ context.Context, event *models.Event) error {
	if event == nil {
		return errNilEvent
	}
	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ids[event.ID]; exists {
		return fmt.Errorf("event %s: %w", event.ID, sentinel.ErrConflict)
	}
	stored := storedEvent{event: *event, details: details}
	stored.event.Details = nil
	s.events = append(s.events, stored)
	s.ids[event.ID] = struct{}{}
	return nil
}

// ListByUser returns matching events newest first. Ties keep reverse insertion order.
func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID, filter models.ListFilter) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.EffectiveLimit()
	out := make([]*models.Event, 0, min(limit, len(s.events)))
	for i := len(s.events) - 1; i >= 0; i-- {
		stored := s.events[i]
		if stored.event.UserID != userID || !filter.Matches(&stored.event) {
			continue
		}
		event, err := stored.materialize()
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	slices.SortStableFunc(out, func(a, b *models.Event) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len reports the number of stored events.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func (e storedEvent) materialize() (*models.Event, error) {
	event := e.event
	if err := json.Unmarshal(e.details, &event.Details); err != nil {
		return nil, fmt.Errorf("unmarshal details: %w", err)
	}
	return &event, nil
}
