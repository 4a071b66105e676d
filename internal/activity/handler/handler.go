package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"studytrail/internal/activity/models"
	id "studytrail/pkg/domain"
	dErrors "studytrail/pkg/domain-errors"
	"studytrail/pkg/platform/httputil"
	strutil "studytrail/pkg/platform/strings"
	"studytrail/pkg/requestcontext"
)

// Tracker is the fire-and-forget activity facade.
type Tracker interface {
	LogActivity(ctx context.Context, userID id.UserID, action models.Action, resourceType models.ResourceType, resourceID string, details map[string]any)
}

// History reads the caller's audit trail.
type History interface {
	ListHistory(ctx context.Context, userID id.UserID, filter models.ListFilter) ([]*models.Event, error)
}

// Handler serves the authenticated activity endpoints.
type Handler struct {
	tracker Tracker
	history History
	logger  *slog.Logger
}

func New(tracker Tracker, history History, logger *slog.Logger) *Handler {
	return &Handler{tracker: tracker, history: history, logger: logger}
}

// Register mounts the routes. Callers apply authentication.
func (h *Handler) Register(r chi.Router) {
	r.Post("/me/activity", h.handleLogActivity)
	r.Get("/me/activity", h.handleListActivity)
}

// handleLogActivity accepts a client-reported event. The response does not
// depend on whether the event was stored.
func (h *Handler) handleLogActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var req LogActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid log activity request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.tracker.LogActivity(ctx, userID, models.Action(req.Action), models.ResourceType(req.ResourceType), req.ResourceID, req.Details)
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *Handler) handleListActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)

	filter := models.ListFilter{}
	for _, a := range strutil.SplitList(r.URL.Query()["action"]) {
		filter.Actions = append(filter.Actions, models.Action(a))
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		filter.Limit = limit
	}

	events, err := h.history.ListHistory(ctx, userID, filter)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			h.logger.ErrorContext(ctx, "failed to list activity",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ListActivityResponse{Events: nonNilEvents(events), Count: len(events)})
}

func nonNilEvents(events []*models.Event) []*models.Event {
	if events == nil {
		return []*models.Event{}
	}
	return events
}
