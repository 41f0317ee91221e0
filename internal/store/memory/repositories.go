package memory

import (
	"context"
	"strings"
	"time"

	"github.com/fittrack/apiserver/internal/store"
	"github.com/fittrack/apiserver/types"
)

// UserRepository keeps users in memory with a unique email constraint.
type UserRepository struct {
	*Table[types.User]
}

var _ store.Gateway[types.User] = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{
		Table: NewTable(
			Identity[types.User]{
				Get: func(u types.User) int64 { return u.ID },
				Set: func(u *types.User, id int64) { u.ID = id },
			},
			WithUniqueKey("users_email_key", func(u types.User) string { return u.Email }),
		),
	}
}

func (r *UserRepository) FindByEmailContaining(ctx context.Context, fragment string) ([]types.User, error) {
	fragment = strings.ToLower(fragment)
	return r.Filter(ctx, func(u types.User) bool {
		return strings.Contains(strings.ToLower(u.Email), fragment)
	})
}

func (r *UserRepository) FindByBirthdateBefore(ctx context.Context, cutoff types.Date) ([]types.User, error) {
	return r.Filter(ctx, func(u types.User) bool {
		return u.Birthdate.Before(cutoff)
	})
}

// TrainingRepository keeps trainings in memory. Owner references are not
// checked against any user table.
type TrainingRepository struct {
	*Table[types.Training]
}

var _ store.Gateway[types.Training] = (*TrainingRepository)(nil)

func NewTrainingRepository() *TrainingRepository {
	return &TrainingRepository{
		Table: NewTable(
			Identity[types.Training]{
				Get: func(t types.Training) int64 { return t.ID },
				Set: func(t *types.Training, id int64) { t.ID = id },
			},
			WithClone(cloneTraining),
		),
	}
}

func (r *TrainingRepository) FindByUserID(ctx context.Context, userID int64) ([]types.Training, error) {
	return r.Filter(ctx, func(t types.Training) bool {
		return t.UserID != nil && *t.UserID == userID
	})
}

func (r *TrainingRepository) FindByEndTimeAfter(ctx context.Context, instant time.Time) ([]types.Training, error) {
	return r.Filter(ctx, func(t types.Training) bool {
		return t.EndTime.After(instant)
	})
}

func (r *TrainingRepository) FindByActivityType(ctx context.Context, name string) ([]types.Training, error) {
	return r.Filter(ctx, func(t types.Training) bool {
		return t.ActivityType.String() == name
	})
}

func cloneTraining(t types.Training) types.Training {
	if t.UserID != nil {
		owner := *t.UserID
		t.UserID = &owner
	}
	return t
}
