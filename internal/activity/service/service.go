package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"studytrail/internal/activity/metrics"
	"studytrail/internal/activity/models"
	"studytrail/internal/platform/logger"
	id "studytrail/pkg/domain"
	dErrors "studytrail/pkg/domain-errors"
	"studytrail/pkg/requestcontext"
)

// HistoryStore is the append-only audit trail. It exposes no update or delete.
type HistoryStore interface {
	Append(ctx context.Context, event *models.Event) error
	ListByUser(ctx context.Context, userID id.UserID, filter models.ListFilter) ([]*models.Event, error)
}

// Mirror receives events after a successful append. Publish must not block
// the caller; delivery failures stay inside the mirror.
type Mirror interface {
	Publish(ctx context.Context, event *models.Event)
}

var errMissingDetails = errors.New("activity details required")

// Recorder appends audit events. Every operation makes exactly one store
// attempt and reports failure as a returned error; nothing panics outward.
type Recorder struct {
	store   HistoryStore
	mirror  Mirror
	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   func() time.Time
	tracer  trace.Tracer
}

type Option func(*Recorder)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Recorder) {
		r.metrics = m
	}
}

func WithMirror(m Mirror) Option {
	return func(r *Recorder) {
		r.mirror = m
	}
}

// WithClock overrides the time source for created_at and the details timestamp.
func WithClock(clock func() time.Time) Option {
	return func(r *Recorder) {
		if clock != nil {
			r.clock = clock
		}
	}
}

func New(store HistoryStore, opts ...Option) *Recorder {
	r := &Recorder{
		store:  store,
		logger: logger.Discard(),
		clock:  time.Now,
		tracer: otel.Tracer("studytrail/internal/activity/service"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends an event for an arbitrary action. resourceID may be nil;
// details may be nil. Any caller-supplied "timestamp" detail is replaced.
func (r *Recorder) Record(ctx context.Context, userID id.UserID, action models.Action, resourceType models.ResourceType, resourceID *string, details map[string]any) error {
	return r.Emit(ctx, models.Entry{
		UserID:     userID,
		ResourceID: resourceID,
		Details: models.CustomDetails{
			Name:     action,
			Resource: resourceType,
			Payload:  details,
		},
	})
}

// Emit appends the event described by entry.
func (r *Recorder) Emit(ctx context.Context, entry models.Entry) (err error) {
	ctx, span := r.tracer.Start(ctx, "activity.record")
	defer span.End()

	var action models.Action
	defer func() {
		if rec := recover(); rec != nil {
			err = r.fail(ctx, span, action, entry.UserID, fmt.Errorf("panic: %v", rec))
		}
	}()

	if entry.Details == nil {
		return r.fail(ctx, span, action, entry.UserID, errMissingDetails)
	}
	action = entry.Details.Action()
	span.SetAttributes(
		attribute.String("activity.action", string(action)),
		attribute.String("user.id", entry.UserID.String()),
	)

	event := r.build(entry)
	start := time.Now()
	appendErr := r.store.Append(ctx, event)
	if r.metrics != nil {
		r.metrics.ObserveRecord(start)
	}
	if appendErr != nil {
		return r.fail(ctx, span, action, entry.UserID, appendErr)
	}

	r.logger.InfoContext(ctx, "activity recorded",
		"action", string(action),
		"user_id", entry.UserID.String(),
		"event_id", event.ID.String(),
		"log_type", "audit",
		"request_id", requestcontext.RequestID(ctx),
	)
	if r.metrics != nil {
		r.metrics.IncrementRecorded(action.MetricLabel(), true)
	}
	r.publish(ctx, event)
	return nil
}

func (r *Recorder) build(entry models.Entry) *models.Event {
	now := r.clock().UTC()

	details := entry.Details.Fields()
	if details == nil {
		details = make(map[string]any, 1)
	}
	details["timestamp"] = now.Format(time.RFC3339Nano)

	resourceID := entry.ResourceID
	if resourceID != nil && *resourceID == "" {
		resourceID = nil
	}

	return &models.Event{
		ID:           id.NewEventID(),
		UserID:       entry.UserID,
		Action:       entry.Details.Action(),
		ResourceType: entry.Details.ResourceType(),
		ResourceID:   resourceID,
		Details:      details,
		Origin:       entry.Details.Origin(),
		IPAddress:    nil,
		CreatedAt:    now,
	}
}

func (r *Recorder) fail(ctx context.Context, span trace.Span, action models.Action, userID id.UserID, cause error) error {
	span.RecordError(cause)
	span.SetStatus(codes.Error, "failed to record activity")
	r.logger.ErrorContext(ctx, "failed to record activity",
		"action", string(action),
		"user_id", userID.String(),
		"error", cause,
		"request_id", requestcontext.RequestID(ctx),
	)
	if r.metrics != nil {
		r.metrics.IncrementRecorded(action.MetricLabel(), false)
	}
	return dErrors.Wrap(cause, dErrors.CodeInternal, "failed to record activity")
}

// publish hands the stored event to the mirror. A mirror fault never turns
// a stored event into a failed record.
func (r *Recorder) publish(ctx context.Context, event *models.Event) {
	if r.mirror == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WarnContext(ctx, "activity mirror panicked",
				"action", string(event.Action),
				"event_id", event.ID.String(),
				"panic", fmt.Sprint(rec),
			)
		}
	}()
	r.mirror.Publish(ctx, event)
}

// ListHistory returns the user's events newest first.
func (r *Recorder) ListHistory(ctx context.Context, userID id.UserID, filter models.ListFilter) ([]*models.Event, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	filter.Limit = filter.EffectiveLimit()
	events, err := r.store.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list activity")
	}
	return events, nil
}
