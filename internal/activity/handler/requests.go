package handler

import (
	"strings"

	"studytrail/internal/activity/models"
	dErrors "studytrail/pkg/domain-errors"
)

const maxActionLength = 64

type LogActivityRequest struct {
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

func (r *LogActivityRequest) Normalize() {
	r.Action = strings.TrimSpace(r.Action)
	r.ResourceType = strings.TrimSpace(r.ResourceType)
	r.ResourceID = strings.TrimSpace(r.ResourceID)
}

func (r *LogActivityRequest) Validate() error {
	if r.Action == "" {
		return dErrors.New(dErrors.CodeValidation, "action is required")
	}
	if len(r.Action) > maxActionLength {
		return dErrors.New(dErrors.CodeValidation, "action is too long")
	}
	if r.ResourceType == "" {
		return dErrors.New(dErrors.CodeValidation, "resource_type is required")
	}
	return nil
}

type ListActivityResponse struct {
	Events []*models.Event `json:"events"`
	Count  int             `json:"count"`
}
