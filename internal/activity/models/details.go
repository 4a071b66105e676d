package models

import "maps"

// Origin labels for server-side writes.
const (
	OriginRegistration   = "Server Registration"
	OriginLogin          = "Server Login"
	OriginLogout         = "Server Logout"
	OriginProfileUpdate  = "Server Profile Update"
	OriginMaterialView   = "Server Material View"
	OriginProgressUpdate = "Server Progress Update"
	OriginGoalCreate     = "Server Goal Create"
	OriginGoalComplete   = "Server Goal Complete"
	OriginSettingsUpdate = "Server Settings Update"
	OriginGeneric        = "Server Action"
)

// DefaultLoginMethod is used when a login is recorded without a method.
const DefaultLoginMethod = "email_password"

// Details is the typed payload of an audit event. Each variant fixes the
// action, the resource type and the origin label; Fields renders the
// payload as the stored details map.
type Details interface {
	Action() Action
	ResourceType() ResourceType
	Origin() string
	Fields() map[string]any
}

type RegisterDetails struct {
	Method    string
	FirstName string
	LastName  string
}

func (RegisterDetails) Action() Action             { return ActionRegister }
func (RegisterDetails) ResourceType() ResourceType { return ResourceUser }
func (RegisterDetails) Origin() string             { return OriginRegistration }
func (d RegisterDetails) Fields() map[string]any {
	return map[string]any{
		"registration_method": d.Method,
		"first_name":          d.FirstName,
		"last_name":           d.LastName,
	}
}

type LoginDetails struct {
	Method string
}

func (LoginDetails) Action() Action             { return ActionLogin }
func (LoginDetails) ResourceType() ResourceType { return ResourceSession }
func (LoginDetails) Origin() string             { return OriginLogin }
func (d LoginDetails) Fields() map[string]any {
	method := d.Method
	if method == "" {
		method = DefaultLoginMethod
	}
	return map[string]any{"login_method": method}
}

type LogoutDetails struct{}

func (LogoutDetails) Action() Action             { return ActionLogout }
func (LogoutDetails) ResourceType() ResourceType { return ResourceSession }
func (LogoutDetails) Origin() string             { return OriginLogout }
func (LogoutDetails) Fields() map[string]any     { return map[string]any{} }

type ProfileUpdateDetails struct {
	UpdatedFields []string
}

func (ProfileUpdateDetails) Action() Action             { return ActionProfileUpdate }
func (ProfileUpdateDetails) ResourceType() ResourceType { return ResourceProfile }
func (ProfileUpdateDetails) Origin() string             { return OriginProfileUpdate }
func (d ProfileUpdateDetails) Fields() map[string]any {
	return map[string]any{"updated_fields": nonNil(d.UpdatedFields)}
}

type MaterialViewDetails struct {
	// DurationSeconds is omitted from the payload when nil.
	DurationSeconds *int
}

func (MaterialViewDetails) Action() Action             { return ActionMaterialView }
func (MaterialViewDetails) ResourceType() ResourceType { return ResourceLearningMaterial }
func (MaterialViewDetails) Origin() string             { return OriginMaterialView }
func (d MaterialViewDetails) Fields() map[string]any {
	fields := map[string]any{}
	if d.DurationSeconds != nil {
		fields["duration_seconds"] = *d.DurationSeconds
	}
	return fields
}

// ProgressDetails records a progress change. Completed selects between
// progress_complete and progress_update.
type ProgressDetails struct {
	OldProgress float64
	NewProgress float64
	Completed   bool
}

func (d ProgressDetails) Action() Action {
	if d.Completed {
		return ActionProgressComplete
	}
	return ActionProgressUpdate
}
func (ProgressDetails) ResourceType() ResourceType { return ResourceProgress }
func (ProgressDetails) Origin() string             { return OriginProgressUpdate }
func (d ProgressDetails) Fields() map[string]any {
	return map[string]any{
		"old_progress": d.OldProgress,
		"new_progress": d.NewProgress,
		"completed":    d.Completed,
	}
}

type GoalCreateDetails struct {
	GoalType string
	// Target is omitted from the payload when nil.
	Target any
}

func (GoalCreateDetails) Action() Action             { return ActionGoalCreate }
func (GoalCreateDetails) ResourceType() ResourceType { return ResourceGoal }
func (GoalCreateDetails) Origin() string             { return OriginGoalCreate }
func (d GoalCreateDetails) Fields() map[string]any {
	fields := map[string]any{"goal_type": d.GoalType}
	if d.Target != nil {
		fields["target"] = d.Target
	}
	return fields
}

type GoalCompleteDetails struct {
	GoalType string
}

func (GoalCompleteDetails) Action() Action             { return ActionGoalComplete }
func (GoalCompleteDetails) ResourceType() ResourceType { return ResourceGoal }
func (GoalCompleteDetails) Origin() string             { return OriginGoalComplete }
func (d GoalCompleteDetails) Fields() map[string]any {
	return map[string]any{"goal_type": d.GoalType}
}

type SettingsUpdateDetails struct {
	UpdatedSettings []string
}

func (SettingsUpdateDetails) Action() Action             { return ActionSettingsUpdate }
func (SettingsUpdateDetails) ResourceType() ResourceType { return ResourceSettings }
func (SettingsUpdateDetails) Origin() string             { return OriginSettingsUpdate }
func (d SettingsUpdateDetails) Fields() map[string]any {
	return map[string]any{"updated_settings": nonNil(d.UpdatedSettings)}
}

// CustomDetails carries a caller-defined action with an untyped payload.
type CustomDetails struct {
	Name     Action
	Resource ResourceType
	Payload  map[string]any
}

func (d CustomDetails) Action() Action             { return d.Name }
func (d CustomDetails) ResourceType() ResourceType { return d.Resource }
func (CustomDetails) Origin() string               { return OriginGeneric }
func (d CustomDetails) Fields() map[string]any {
	fields := make(map[string]any, len(d.Payload)+1)
	maps.Copy(fields, d.Payload)
	return fields
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
