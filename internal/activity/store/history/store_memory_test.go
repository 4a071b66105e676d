package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"studytrail/internal/activity/models"
	id "studytrail/pkg/domain"
	"studytrail/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	base  time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.base = time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) event(userID id.UserID, action models.Action, offset time.Duration) *models.Event {
	return &models.Event{
		ID:           id.NewEventID(),
		UserID:       userID,
		Action:       action,
		ResourceType: models.ResourceSession,
		Details:      map[string]any{"timestamp": s.base.Add(offset).Format(time.RFC3339Nano)},
		Origin:       models.OriginGeneric,
		CreatedAt:    s.base.Add(offset),
	}
}

func (s *InMemoryStoreSuite) TestAppendAndList() {
	ctx := context.Background()
	userID := id.NewUserID()
	other := id.NewUserID()

	s.Require().NoError(s.store.Append(ctx, s.event(userID, models.ActionLogin, 0)))
	s.Require().NoError(s.store.Append(ctx, s.event(userID, models.ActionLogout, time.Minute)))
	s.Require().NoError(s.store.Append(ctx, s.event(other, models.ActionLogin, 2*time.Minute)))

	events, err := s.store.ListByUser(ctx, userID, models.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(models.ActionLogout, events[0].Action, "newest first")
	s.Equal(models.ActionLogin, events[1].Action)
	s.Equal(3, s.store.Len())
}

func (s *InMemoryStoreSuite) TestListFiltersAndLimits() {
	ctx := context.Background()
	userID := id.NewUserID()
	for i, action := range []models.Action{models.ActionLogin, models.ActionGoalCreate, models.ActionLogin, models.ActionLogout} {
		s.Require().NoError(s.store.Append(ctx, s.event(userID, action, time.Duration(i)*time.Second)))
	}

	logins, err := s.store.ListByUser(ctx, userID, models.ListFilter{Actions: []models.Action{models.ActionLogin}})
	s.Require().NoError(err)
	s.Len(logins, 2)

	latest, err := s.store.ListByUser(ctx, userID, models.ListFilter{Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(latest, 1)
	s.Equal(models.ActionLogout, latest[0].Action)
}

func (s *InMemoryStoreSuite) TestStoredEventsAreImmutable() {
	ctx := context.Background()
	userID := id.NewUserID()
	event := s.event(userID, models.ActionLogin, 0)
	s.Require().NoError(s.store.Append(ctx, event))

	event.Details["timestamp"] = "tampered"
	event.Action = models.ActionLogout

	events, err := s.store.ListByUser(ctx, userID, models.ListFilter{})
	s.Require().NoError(err)
	s.Equal(models.ActionLogin, events[0].Action)
	s.NotEqual("tampered", events[0].Details["timestamp"])

	events[0].Details["timestamp"] = "tampered again"
	again, err := s.store.ListByUser(ctx, userID, models.ListFilter{})
	s.Require().NoError(err)
	s.NotEqual("tampered again", again[0].Details["timestamp"])
}

func (s *InMemoryStoreSuite) TestAppendRejections() {
	ctx := context.Background()

	s.Run("duplicate id", func() {
		event := s.event(id.NewUserID(), models.ActionLogin, 0)
		s.Require().NoError(s.store.Append(ctx, event))
		s.ErrorIs(s.store.Append(ctx, event), sentinel.ErrConflict)
	})

	s.Run("details that cannot be encoded", func() {
		event := s.event(id.NewUserID(), models.ActionLogin, 0)
		event.Details["callback"] = func() {}
		s.Error(s.store.Append(ctx, event))
	})

	s.Run("nil event", func() {
		s.Error(s.store.Append(ctx, nil))
	})
}
