package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studytrail/internal/activity/facade"
	"studytrail/internal/activity/models"
	"studytrail/internal/activity/service"
	"studytrail/internal/activity/store/history"
	id "studytrail/pkg/domain"
	"studytrail/pkg/testutil"
)

type brokenHistory struct{}

func (brokenHistory) Append(context.Context, *models.Event) error {
	return errors.New("database is read-only")
}

func (brokenHistory) ListByUser(context.Context, id.UserID, models.ListFilter) ([]*models.Event, error) {
	return nil, errors.New("database is read-only")
}

func newActivityRouter(t *testing.T, store service.HistoryStore) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	recorder := service.New(store, service.WithLogger(logger))
	h := New(facade.New(recorder, facade.WithLogger(logger)), recorder, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestLogActivity(t *testing.T) {
	userID := id.NewUserID()

	testutil.Given(t, "an authenticated user and a working store", func(t *testing.T) {
		store := history.NewInMemory()
		router := newActivityRouter(t, store)

		testutil.When(t, "a custom action is reported", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/me/activity", map[string]any{
				"action":        "quiz_attempt",
				"resource_type": "quiz",
				"resource_id":   "quiz-3",
				"details":       map[string]any{"score": 9},
			})
			rr := testutil.DoRequest(router, testutil.WithUserID(req, userID.String()))

			testutil.Then(t, "it is accepted and appended", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusAccepted)
				events, err := store.ListByUser(context.Background(), userID, models.ListFilter{})
				require.NoError(t, err)
				require.Len(t, events, 1)
				assert.Equal(t, models.Action("quiz_attempt"), events[0].Action)
				assert.Equal(t, "quiz-3", *events[0].ResourceID)
				assert.Equal(t, float64(9), events[0].Details["score"])
			})
		})
	})

	testutil.Given(t, "a store that rejects every insert", func(t *testing.T) {
		router := newActivityRouter(t, brokenHistory{})

		testutil.When(t, "an action is reported", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/me/activity", map[string]any{
				"action": "login", "resource_type": "session",
			})
			rr := testutil.DoRequest(router, testutil.WithUserID(req, userID.String()))

			testutil.Then(t, "the caller still gets 202", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusAccepted)
			})
		})
	})
}

func TestLogActivityRejectsBadInput(t *testing.T) {
	router := newActivityRouter(t, history.NewInMemory())
	userID := id.NewUserID().String()

	t.Run("malformed body", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/me/activity", "{")
		rr := testutil.DoRequest(router, testutil.WithUserID(req, userID))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	t.Run("missing action", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/me/activity", map[string]any{"resource_type": "quiz"})
		rr := testutil.DoRequest(router, testutil.WithUserID(req, userID))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("no authenticated user", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/me/activity", map[string]any{"action": "login", "resource_type": "session"})
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})
}

func TestListActivity(t *testing.T) {
	store := history.NewInMemory()
	router := newActivityRouter(t, store)
	userID := id.NewUserID()
	recorder := service.New(store)
	ctx := context.Background()
	require.NoError(t, recorder.LogLogin(ctx, userID, ""))
	require.NoError(t, recorder.LogGoalCreate(ctx, userID, "goal-1", "streak", nil))
	require.NoError(t, recorder.LogLogout(ctx, userID))
	require.NoError(t, recorder.LogLogin(ctx, id.NewUserID(), ""))

	t.Run("lists only the caller's events", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/me/activity")
		rr := testutil.DoRequest(router, testutil.WithUserID(req, userID.String()))

		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[ListActivityResponse](t, rr)
		assert.Equal(t, 3, resp.Count)
	})

	t.Run("filters by action and limit", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/me/activity?action=login,goal_create&limit=1")
		rr := testutil.DoRequest(router, testutil.WithUserID(req, userID.String()))

		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[ListActivityResponse](t, rr)
		require.Equal(t, 1, resp.Count)
		assert.Contains(t, []models.Action{models.ActionLogin, models.ActionGoalCreate}, resp.Events[0].Action)
	})

	t.Run("rejects a bad limit", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/me/activity?limit=-3")
		rr := testutil.DoRequest(router, testutil.WithUserID(req, userID.String()))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	t.Run("store failure is internal and opaque", func(t *testing.T) {
		broken := newActivityRouter(t, brokenHistory{})
		req := testutil.NewRequest(t, http.MethodGet, "/me/activity")
		rr := testutil.DoRequest(broken, testutil.WithUserID(req, userID.String()))

		testutil.AssertStatus(t, rr, http.StatusInternalServerError)
		assert.NotContains(t, rr.Body.String(), "read-only")
	})
}
