package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studytrail/internal/account/models"
	dErrors "studytrail/pkg/domain-errors"
	"studytrail/pkg/platform/httputil"
	"studytrail/pkg/requestcontext"
)

// Provisioner creates accounts.
type Provisioner interface {
	Provision(ctx context.Context, req models.ProvisionRequest) (*models.Account, error)
}

// Handler serves the public sign-up endpoint.
type Handler struct {
	provisioner Provisioner
	logger      *slog.Logger
}

func New(provisioner Provisioner, logger *slog.Logger) *Handler {
	return &Handler{provisioner: provisioner, logger: logger}
}

// Register mounts the routes. Callers apply rate limiting.
func (h *Handler) Register(r chi.Router) {
	r.Post("/accounts", h.handleCreateAccount)
}

func (h *Handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req models.ProvisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid create account request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	account, err := h.provisioner.Provision(ctx, req)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to create account",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, account)
}
