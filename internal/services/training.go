package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fittrack/apiserver/internal/store"
	"github.com/fittrack/apiserver/types"
)

const trainingsEntity = "trainings"

// TrainingRepository defines persistence operations for trainings.
type TrainingRepository interface {
	store.Gateway[types.Training]
	FindByUserID(ctx context.Context, userID int64) ([]types.Training, error)
	FindByEndTimeAfter(ctx context.Context, instant time.Time) ([]types.Training, error)
	FindByActivityType(ctx context.Context, name string) ([]types.Training, error)
}

// TrainingService encapsulates training use-cases.
type TrainingService struct {
	repo     TrainingRepository
	notifier ChangeNotifier
}

var _ Trainings = (*TrainingService)(nil)

func NewTrainingService(repo TrainingRepository, opts ...Option) *TrainingService {
	o := buildOptions(opts)
	return &TrainingService{
		repo:     repo,
		notifier: o.notifier,
	}
}

func (s *TrainingService) FindAll(ctx context.Context) ([]types.Training, error) {
	return s.repo.FindAll(ctx)
}

func (s *TrainingService) Get(ctx context.Context, id int64) (types.Training, bool, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TrainingService) Create(ctx context.Context, training types.Training) (types.Training, error) {
	created, err := s.repo.Save(ctx, training)
	if err != nil {
		return types.Training{}, err
	}
	s.notifier.Notify(ctx, trainingsEntity, ActionCreated, created.ID, created)
	return created, nil
}

// Update overwrites the owner, times, activity type, distance and average
// speed of the stored training in one atomic step.
func (s *TrainingService) Update(ctx context.Context, id int64, training types.Training) (types.Training, error) {
	updated, found, err := s.repo.Modify(ctx, id, func(current *types.Training) {
		current.UserID = training.UserID
		current.StartTime = training.StartTime
		current.EndTime = training.EndTime
		current.ActivityType = training.ActivityType
		current.Distance = training.Distance
		current.AverageSpeed = training.AverageSpeed
	})
	if err != nil {
		return types.Training{}, err
	}
	if !found {
		return types.Training{}, fmt.Errorf("update training %d: %w", id, ErrTrainingNotFound)
	}
	s.notifier.Notify(ctx, trainingsEntity, ActionUpdated, updated.ID, updated)
	return updated, nil
}

func (s *TrainingService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.notifier.Notify(ctx, trainingsEntity, ActionDeleted, id, nil)
	return nil
}

func (s *TrainingService) FindByUser(ctx context.Context, userID int64) ([]types.Training, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// FindByActivityType matches the activity type name exactly; unknown names
// simply match nothing.
func (s *TrainingService) FindByActivityType(ctx context.Context, name string) ([]types.Training, error) {
	return s.repo.FindByActivityType(ctx, name)
}

// FindCompletedAfter returns trainings whose end time is strictly after
// midnight UTC of dateText.
func (s *TrainingService) FindCompletedAfter(ctx context.Context, dateText string) ([]types.Training, error) {
	date, err := types.ParseDate(dateText)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDateFormat, dateText)
	}
	return s.repo.FindByEndTimeAfter(ctx, date.Time())
}
