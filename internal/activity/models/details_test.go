package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetailsVariants(t *testing.T) {
	duration := 90
	tests := []struct {
		name         string
		details      Details
		action       Action
		resourceType ResourceType
		origin       string
		fields       map[string]any
	}{
		{
			name:         "register",
			details:      RegisterDetails{Method: "email", FirstName: "Ann", LastName: "Lee"},
			action:       ActionRegister,
			resourceType: ResourceUser,
			origin:       "Server Registration",
			fields:       map[string]any{"registration_method": "email", "first_name": "Ann", "last_name": "Lee"},
		},
		{
			name:         "login defaults method",
			details:      LoginDetails{},
			action:       ActionLogin,
			resourceType: ResourceSession,
			origin:       "Server Login",
			fields:       map[string]any{"login_method": "email_password"},
		},
		{
			name:         "logout",
			details:      LogoutDetails{},
			action:       ActionLogout,
			resourceType: ResourceSession,
			origin:       "Server Logout",
			fields:       map[string]any{},
		},
		{
			name:         "profile update",
			details:      ProfileUpdateDetails{UpdatedFields: []string{"first_name"}},
			action:       ActionProfileUpdate,
			resourceType: ResourceProfile,
			origin:       "Server Profile Update",
			fields:       map[string]any{"updated_fields": []string{"first_name"}},
		},
		{
			name:         "material view with duration",
			details:      MaterialViewDetails{DurationSeconds: &duration},
			action:       ActionMaterialView,
			resourceType: ResourceLearningMaterial,
			origin:       "Server Material View",
			fields:       map[string]any{"duration_seconds": 90},
		},
		{
			name:         "material view without duration",
			details:      MaterialViewDetails{},
			action:       ActionMaterialView,
			resourceType: ResourceLearningMaterial,
			origin:       "Server Material View",
			fields:       map[string]any{},
		},
		{
			name:         "progress update",
			details:      ProgressDetails{OldProgress: 10, NewProgress: 40},
			action:       ActionProgressUpdate,
			resourceType: ResourceProgress,
			origin:       "Server Progress Update",
			fields:       map[string]any{"old_progress": 10.0, "new_progress": 40.0, "completed": false},
		},
		{
			name:         "progress complete",
			details:      ProgressDetails{OldProgress: 90, NewProgress: 100, Completed: true},
			action:       ActionProgressComplete,
			resourceType: ResourceProgress,
			origin:       "Server Progress Update",
			fields:       map[string]any{"old_progress": 90.0, "new_progress": 100.0, "completed": true},
		},
		{
			name:         "goal create without target",
			details:      GoalCreateDetails{GoalType: "streak"},
			action:       ActionGoalCreate,
			resourceType: ResourceGoal,
			origin:       "Server Goal Create",
			fields:       map[string]any{"goal_type": "streak"},
		},
		{
			name:         "goal complete",
			details:      GoalCompleteDetails{GoalType: "streak"},
			action:       ActionGoalComplete,
			resourceType: ResourceGoal,
			origin:       "Server Goal Complete",
			fields:       map[string]any{"goal_type": "streak"},
		},
		{
			name:         "settings update",
			details:      SettingsUpdateDetails{},
			action:       ActionSettingsUpdate,
			resourceType: ResourceSettings,
			origin:       "Server Settings Update",
			fields:       map[string]any{"updated_settings": []string{}},
		},
		{
			name:         "custom",
			details:      CustomDetails{Name: "quiz_attempt", Resource: "quiz", Payload: map[string]any{"score": 8}},
			action:       "quiz_attempt",
			resourceType: "quiz",
			origin:       "Server Action",
			fields:       map[string]any{"score": 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.action, tt.details.Action())
			assert.Equal(t, tt.resourceType, tt.details.ResourceType())
			assert.Equal(t, tt.origin, tt.details.Origin())
			assert.Equal(t, tt.fields, tt.details.Fields())
		})
	}
}

func TestCustomDetailsFieldsDoNotAliasPayload(t *testing.T) {
	payload := map[string]any{"score": 8}
	fields := CustomDetails{Name: "quiz_attempt", Payload: payload}.Fields()
	fields["timestamp"] = "later"

	assert.NotContains(t, payload, "timestamp")
}

func TestActionMetricLabel(t *testing.T) {
	assert.Equal(t, "login", ActionLogin.MetricLabel())
	assert.Equal(t, "custom", Action("quiz_attempt").MetricLabel())
	assert.False(t, Action("").Known())
}

func TestListFilter(t *testing.T) {
	assert.Equal(t, DefaultListLimit, ListFilter{}.EffectiveLimit())
	assert.Equal(t, MaxListLimit, ListFilter{Limit: 10_000}.EffectiveLimit())
	assert.Equal(t, 7, ListFilter{Limit: 7}.EffectiveLimit())

	login := &Event{Action: ActionLogin}
	assert.True(t, ListFilter{}.Matches(login))
	assert.True(t, ListFilter{Actions: []Action{ActionLogout, ActionLogin}}.Matches(login))
	assert.False(t, ListFilter{Actions: []Action{ActionRegister}}.Matches(login))
}
