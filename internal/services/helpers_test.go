package services

import (
	"context"
	"sync"
	"time"

	"github.com/fittrack/apiserver/internal/store/memory"
	"github.com/fittrack/apiserver/types"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type notification struct {
	Entity string
	Action string
	ID     int64
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (r *recordingNotifier) Notify(_ context.Context, entity, action string, id int64, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, notification{Entity: entity, Action: action, ID: id})
}

func (r *recordingNotifier) all() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification(nil), r.events...)
}

// countingTrainings records which repository calls were made.
type countingTrainings struct {
	*memory.TrainingRepository
	saves   int
	queries int
}

func (c *countingTrainings) Save(ctx context.Context, t types.Training) (types.Training, error) {
	c.saves++
	return c.TrainingRepository.Save(ctx, t)
}

func (c *countingTrainings) FindByEndTimeAfter(ctx context.Context, instant time.Time) ([]types.Training, error) {
	c.queries++
	return c.TrainingRepository.FindByEndTimeAfter(ctx, instant)
}

type countingUsers struct {
	*memory.UserRepository
	saves int
}

func (c *countingUsers) Save(ctx context.Context, u types.User) (types.User, error) {
	c.saves++
	return c.UserRepository.Save(ctx, u)
}
