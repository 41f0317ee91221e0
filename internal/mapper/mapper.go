// Package mapper converts between stored entities and their wire shapes.
package mapper

import (
	"errors"
	"fmt"

	"github.com/fittrack/apiserver/types"
)

// ErrInvalidActivityType is returned when a transfer carries an activity
// type name outside the supported set.
var ErrInvalidActivityType = errors.New("invalid activity type")

// UserToTransfer copies every field of user into its wire shape.
func UserToTransfer(user types.User) types.UserTransfer {
	return types.UserTransfer{
		ID:        idPtr(user.ID),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Birthdate: user.Birthdate,
		Email:     user.Email,
	}
}

// UserToEntity builds a User from its wire shape, keeping the identifier
// when the transfer carries one.
func UserToEntity(transfer types.UserTransfer) types.User {
	return types.User{
		ID:        idValue(transfer.ID),
		FirstName: transfer.FirstName,
		LastName:  transfer.LastName,
		Birthdate: transfer.Birthdate,
		Email:     transfer.Email,
	}
}

// UsersToTransfer maps a slice of users, never returning nil.
func UsersToTransfer(users []types.User) []types.UserTransfer {
	out := make([]types.UserTransfer, 0, len(users))
	for _, user := range users {
		out = append(out, UserToTransfer(user))
	}
	return out
}

// TrainingToTransfer copies every field of training into its wire shape.
// The activity type is rendered by name.
func TrainingToTransfer(training types.Training) types.TrainingTransfer {
	distance := training.Distance
	averageSpeed := training.AverageSpeed
	return types.TrainingTransfer{
		ID:           idPtr(training.ID),
		UserID:       copyID(training.UserID),
		StartTime:    types.Timestamp{Time: training.StartTime},
		EndTime:      types.Timestamp{Time: training.EndTime},
		ActivityType: training.ActivityType.String(),
		Distance:     &distance,
		AverageSpeed: &averageSpeed,
	}
}

// TrainingToEntity builds a Training from its wire shape. The activity type
// must exactly match one of the supported names.
func TrainingToEntity(transfer types.TrainingTransfer) (types.Training, error) {
	activityType, ok := types.ParseActivityType(transfer.ActivityType)
	if !ok {
		return types.Training{}, fmt.Errorf("%w: %q", ErrInvalidActivityType, transfer.ActivityType)
	}

	training := types.Training{
		ID:           idValue(transfer.ID),
		UserID:       copyID(transfer.UserID),
		StartTime:    transfer.StartTime.Time,
		EndTime:      transfer.EndTime.Time,
		ActivityType: activityType,
	}
	if transfer.Distance != nil {
		training.Distance = *transfer.Distance
	}
	if transfer.AverageSpeed != nil {
		training.AverageSpeed = *transfer.AverageSpeed
	}
	return training, nil
}

// TrainingsToTransfer maps a slice of trainings, never returning nil.
func TrainingsToTransfer(trainings []types.Training) []types.TrainingTransfer {
	out := make([]types.TrainingTransfer, 0, len(trainings))
	for _, training := range trainings {
		out = append(out, TrainingToTransfer(training))
	}
	return out
}

func idPtr(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func idValue(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
