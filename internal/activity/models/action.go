package models

// Action names an entry in the audit taxonomy. The taxonomy is open: the
// generic Record path accepts any value.
type Action string

const (
	ActionRegister         Action = "register"
	ActionLogin            Action = "login"
	ActionLogout           Action = "logout"
	ActionProfileUpdate    Action = "profile_update"
	ActionMaterialView     Action = "material_view"
	ActionProgressUpdate   Action = "progress_update"
	ActionProgressComplete Action = "progress_complete"
	ActionGoalCreate       Action = "goal_create"
	ActionGoalComplete     Action = "goal_complete"
	ActionSettingsUpdate   Action = "settings_update"
)

var knownActions = map[Action]struct{}{
	ActionRegister:         {},
	ActionLogin:            {},
	ActionLogout:           {},
	ActionProfileUpdate:    {},
	ActionMaterialView:     {},
	ActionProgressUpdate:   {},
	ActionProgressComplete: {},
	ActionGoalCreate:       {},
	ActionGoalComplete:     {},
	ActionSettingsUpdate:   {},
}

// Known reports whether a is part of the built-in taxonomy.
func (a Action) Known() bool {
	_, ok := knownActions[a]
	return ok
}

// MetricLabel bounds label cardinality: caller-defined actions collapse to "custom".
func (a Action) MetricLabel() string {
	if a.Known() {
		return string(a)
	}
	return "custom"
}

func (a Action) String() string { return string(a) }

// ResourceType names the kind of entity an event refers to.
type ResourceType string

const (
	ResourceUser             ResourceType = "user"
	ResourceSession          ResourceType = "session"
	ResourceProfile          ResourceType = "profile"
	ResourceLearningMaterial ResourceType = "learning_material"
	ResourceProgress         ResourceType = "progress"
	ResourceGoal             ResourceType = "goal"
	ResourceSettings         ResourceType = "settings"
)
