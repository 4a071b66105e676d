package service

import (
	"context"

	"studytrail/internal/activity/models"
	id "studytrail/pkg/domain"
)

// LogRegistration records account creation. The resource is the user itself.
func (r *Recorder) LogRegistration(ctx context.Context, userID id.UserID, method, firstName, lastName string) error {
	return r.Emit(ctx, models.Entry{
		UserID:     userID,
		ResourceID: models.StringPtr(userID.String()),
		Details:    models.RegisterDetails{Method: method, FirstName: firstName, LastName: lastName},
	})
}

// LogLogin records a sign-in. An empty method records "email_password".
func (r *Recorder) LogLogin(ctx context.Context, userID id.UserID, method string) error {
	return r.Emit(ctx, models.Entry{
		UserID:  userID,
		Details: models.LoginDetails{Method: method},
	})
}

func (r *Recorder) LogLogout(ctx context.Context, userID id.UserID) error {
	return r.Emit(ctx, models.Entry{
		UserID:  userID,
		Details: models.LogoutDetails{},
	})
}

func (r *Recorder) LogProfileUpdate(ctx context.Context, userID id.UserID, updatedFields []string) error {
	return r.Emit(ctx, models.Entry{
		UserID:     userID,
		ResourceID: models.StringPtr(userID.String()),
		Details:    models.ProfileUpdateDetails{UpdatedFields: updatedFields},
	})
}

// LogMaterialView records a material view. durationSeconds is optional.
func (r *Recorder) LogMaterialView(ctx context.Context, userID id.UserID, materialID string, durationSeconds *int) error {
	return r.Emit(ctx, models.Entry{
		UserID:     userID,
		ResourceID: models.StringPtr(materialID),
		Details:    models.MaterialViewDetails{DurationSeconds: durationSeconds},
	})
}

// LogProgressUpdate records progress_complete when completed is set and
// progress_update otherwise.
func (r *Recorder) LogProgressUpdate(ctx context.Context, userID id.UserID, progressID string, oldProgress, newProgress float64, completed bool) error {
	return r.Emit(ctx, models.Entry{
		UserID:     userID,
		ResourceID: models.StringPtr(progressID),
		Details: models.ProgressDetails{
			OldProgress: oldProgress,
			NewProgress: newProgress,
			Completed:   completed,
		},
	})
}

// LogGoalCreate records a new goal. target is optional.
func (r *Recorder) LogGoalCreate(ctx context.Context, userID id.UserID, goalID, goalType string, target any) error {
	return r.Emit(ctx, models.Entry{
		UserID:     userID,
		ResourceID: models.StringPtr(goalID),
		Details:    models.GoalCreateDetails{GoalType: goalType, Target: target},
	})
}

func (r *Recorder) LogGoalComplete(ctx context.Context, userID id.UserID, goalID, goalType string) error {
	return r.Emit(ctx, models.Entry{
		UserID:     userID,
		ResourceID: models.StringPtr(goalID),
		Details:    models.GoalCompleteDetails{GoalType: goalType},
	})
}

func (r *Recorder) LogSettingsUpdate(ctx context.Context, userID id.UserID, updatedSettings []string) error {
	return r.Emit(ctx, models.Entry{
		UserID:  userID,
		Details: models.SettingsUpdateDetails{UpdatedSettings: updatedSettings},
	})
}
