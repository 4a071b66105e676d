// Package facade gives interactive call sites fire-and-forget activity logging.
//
// Every Tracker method returns nothing. Recorder errors and panics are logged
// at warn level and dropped, so a logging fault can never change the
// caller's control flow.
//
// Profile, material, progress and goal calls go through the recorder's typed
// operations, not the generic Record. Their events carry the per-action
// origin label (for example "Server Goal Create"), and progress events always
// include completed=false. Only LogActivity produces the "Server Action"
// origin.
package facade

import (
	"context"
	"fmt"
	"log/slog"

	"studytrail/internal/activity/metrics"
	"studytrail/internal/activity/models"
	"studytrail/internal/platform/logger"
	id "studytrail/pkg/domain"
)

// Recorder is the subset of the activity recorder the facade drives.
type Recorder interface {
	Record(ctx context.Context, userID id.UserID, action models.Action, resourceType models.ResourceType, resourceID *string, details map[string]any) error
	LogLogin(ctx context.Context, userID id.UserID, method string) error
	LogLogout(ctx context.Context, userID id.UserID) error
	LogProfileUpdate(ctx context.Context, userID id.UserID, updatedFields []string) error
	LogMaterialView(ctx context.Context, userID id.UserID, materialID string, durationSeconds *int) error
	LogProgressUpdate(ctx context.Context, userID id.UserID, progressID string, oldProgress, newProgress float64, completed bool) error
	LogGoalCreate(ctx context.Context, userID id.UserID, goalID, goalType string, target any) error
}

type Tracker struct {
	recorder Recorder
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Tracker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tracker) {
		t.metrics = m
	}
}

func New(recorder Recorder, opts ...Option) *Tracker {
	t := &Tracker{recorder: recorder, logger: logger.Discard()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) LogLogin(ctx context.Context, userID id.UserID, method string) {
	t.guard(ctx, models.ActionLogin, userID, func() error {
		return t.recorder.LogLogin(ctx, userID, method)
	})
}

func (t *Tracker) LogLogout(ctx context.Context, userID id.UserID) {
	t.guard(ctx, models.ActionLogout, userID, func() error {
		return t.recorder.LogLogout(ctx, userID)
	})
}

// LogActivity records an arbitrary action. An empty resourceID is stored as null.
func (t *Tracker) LogActivity(ctx context.Context, userID id.UserID, action models.Action, resourceType models.ResourceType, resourceID string, details map[string]any) {
	t.guard(ctx, action, userID, func() error {
		return t.recorder.Record(ctx, userID, action, resourceType, models.StringPtr(resourceID), details)
	})
}

func (t *Tracker) LogProfileUpdate(ctx context.Context, userID id.UserID, updatedFields []string) {
	t.guard(ctx, models.ActionProfileUpdate, userID, func() error {
		return t.recorder.LogProfileUpdate(ctx, userID, updatedFields)
	})
}

func (t *Tracker) LogMaterialView(ctx context.Context, userID id.UserID, materialID string, durationSeconds *int) {
	t.guard(ctx, models.ActionMaterialView, userID, func() error {
		return t.recorder.LogMaterialView(ctx, userID, materialID, durationSeconds)
	})
}

// LogProgressUpdate always records an in-progress change; completions go
// through the recorder directly.
func (t *Tracker) LogProgressUpdate(ctx context.Context, userID id.UserID, progressID string, oldProgress, newProgress float64) {
	t.guard(ctx, models.ActionProgressUpdate, userID, func() error {
		return t.recorder.LogProgressUpdate(ctx, userID, progressID, oldProgress, newProgress, false)
	})
}

func (t *Tracker) LogGoalCreate(ctx context.Context, userID id.UserID, goalID, goalType string, target any) {
	t.guard(ctx, models.ActionGoalCreate, userID, func() error {
		return t.recorder.LogGoalCreate(ctx, userID, goalID, goalType, target)
	})
}

func (t *Tracker) guard(ctx context.Context, action models.Action, userID id.UserID, fn func() error) {
	defer func() {
		if rec := recover(); rec != nil {
			t.suppress(ctx, action, userID, fmt.Errorf("panic: %v", rec))
		}
	}()
	if err := fn(); err != nil {
		t.suppress(ctx, action, userID, err)
	}
}

func (t *Tracker) suppress(ctx context.Context, action models.Action, userID id.UserID, err error) {
	t.logger.WarnContext(ctx, "failed to log "+string(action),
		"user_id", userID.String(),
		"error", err,
	)
	if t.metrics != nil {
		t.metrics.IncrementFacadeSuppressed(action.MetricLabel())
	}
}
