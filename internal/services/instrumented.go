package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/fittrack/apiserver/internal/observability"
	"github.com/fittrack/apiserver/types"
)

// lookup is the logged result of a Get call.
type lookup[T any] struct {
	Value T
	Found bool
}

// observe logs the call before and after it runs, including its result, and
// records the call in the service metrics.
func observe[T any](
	ctx context.Context,
	logger *slog.Logger,
	service, method string,
	args []any,
	fn func() (T, error),
) (T, error) {
	logger.InfoContext(ctx, "service call",
		"service", service,
		"method", method,
		"args", args,
	)

	start := time.Now()
	result, err := fn()
	elapsed := time.Since(start)
	observability.RecordServiceCall(service, method, err, elapsed)

	if err != nil {
		logger.WarnContext(ctx, "service call failed",
			"service", service,
			"method", method,
			"duration", elapsed,
			"error", err,
		)
		return result, err
	}
	logger.InfoContext(ctx, "service call returned",
		"service", service,
		"method", method,
		"duration", elapsed,
		"result", result,
	)
	return result, nil
}

func observeErr(ctx context.Context, logger *slog.Logger, service, method string, args []any, fn func() error) error {
	_, err := observe(ctx, logger, service, method, args, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

type instrumentedUsers struct {
	next   Users
	logger *slog.Logger
}

// InstrumentUsers wraps next so every call is logged and measured. A nil
// logger falls back to slog.Default().
func InstrumentUsers(next Users, logger *slog.Logger) Users {
	if logger == nil {
		logger = slog.Default()
	}
	return &instrumentedUsers{next: next, logger: logger}
}

func (u *instrumentedUsers) FindAll(ctx context.Context) ([]types.User, error) {
	return observe(ctx, u.logger, usersEntity, "FindAll", nil, func() ([]types.User, error) {
		return u.next.FindAll(ctx)
	})
}

func (u *instrumentedUsers) Get(ctx context.Context, id int64) (types.User, bool, error) {
	res, err := observe(ctx, u.logger, usersEntity, "Get", []any{id}, func() (lookup[types.User], error) {
		user, found, err := u.next.Get(ctx, id)
		return lookup[types.User]{Value: user, Found: found}, err
	})
	return res.Value, res.Found, err
}

func (u *instrumentedUsers) Create(ctx context.Context, user types.User) (types.User, error) {
	return observe(ctx, u.logger, usersEntity, "Create", []any{user}, func() (types.User, error) {
		return u.next.Create(ctx, user)
	})
}

func (u *instrumentedUsers) Update(ctx context.Context, id int64, user types.User) (types.User, error) {
	return observe(ctx, u.logger, usersEntity, "Update", []any{id, user}, func() (types.User, error) {
		return u.next.Update(ctx, id, user)
	})
}

func (u *instrumentedUsers) Delete(ctx context.Context, id int64) error {
	return observeErr(ctx, u.logger, usersEntity, "Delete", []any{id}, func() error {
		return u.next.Delete(ctx, id)
	})
}

func (u *instrumentedUsers) FindByEmailContaining(ctx context.Context, fragment string) ([]types.User, error) {
	return observe(ctx, u.logger, usersEntity, "FindByEmailContaining", []any{fragment}, func() ([]types.User, error) {
		return u.next.FindByEmailContaining(ctx, fragment)
	})
}

func (u *instrumentedUsers) FindOlderThan(ctx context.Context, years int) ([]types.User, error) {
	return observe(ctx, u.logger, usersEntity, "FindOlderThan", []any{years}, func() ([]types.User, error) {
		return u.next.FindOlderThan(ctx, years)
	})
}

type instrumentedTrainings struct {
	next   Trainings
	logger *slog.Logger
}

// InstrumentTrainings wraps next so every call is logged and measured. A nil
// logger falls back to slog.Default().
func InstrumentTrainings(next Trainings, logger *slog.Logger) Trainings {
	if logger == nil {
		logger = slog.Default()
	}
	return &instrumentedTrainings{next: next, logger: logger}
}

func (t *instrumentedTrainings) FindAll(ctx context.Context) ([]types.Training, error) {
	return observe(ctx, t.logger, trainingsEntity, "FindAll", nil, func() ([]types.Training, error) {
		return t.next.FindAll(ctx)
	})
}

func (t *instrumentedTrainings) Get(ctx context.Context, id int64) (types.Training, bool, error) {
	res, err := observe(ctx, t.logger, trainingsEntity, "Get", []any{id}, func() (lookup[types.Training], error) {
		training, found, err := t.next.Get(ctx, id)
		return lookup[types.Training]{Value: training, Found: found}, err
	})
	return res.Value, res.Found, err
}

func (t *instrumentedTrainings) Create(ctx context.Context, training types.Training) (types.Training, error) {
	return observe(ctx, t.logger, trainingsEntity, "Create", []any{training}, func() (types.Training, error) {
		return t.next.Create(ctx, training)
	})
}

func (t *instrumentedTrainings) Update(ctx context.Context, id int64, training types.Training) (types.Training, error) {
	return observe(ctx, t.logger, trainingsEntity, "Update", []any{id, training}, func() (types.Training, error) {
		return t.next.Update(ctx, id, training)
	})
}

func (t *instrumentedTrainings) Delete(ctx context.Context, id int64) error {
	return observeErr(ctx, t.logger, trainingsEntity, "Delete", []any{id}, func() error {
		return t.next.Delete(ctx, id)
	})
}

func (t *instrumentedTrainings) FindByUser(ctx context.Context, userID int64) ([]types.Training, error) {
	return observe(ctx, t.logger, trainingsEntity, "FindByUser", []any{userID}, func() ([]types.Training, error) {
		return t.next.FindByUser(ctx, userID)
	})
}

func (t *instrumentedTrainings) FindByActivityType(ctx context.Context, name string) ([]types.Training, error) {
	return observe(ctx, t.logger, trainingsEntity, "FindByActivityType", []any{name}, func() ([]types.Training, error) {
		return t.next.FindByActivityType(ctx, name)
	})
}

func (t *instrumentedTrainings) FindCompletedAfter(ctx context.Context, dateText string) ([]types.Training, error) {
	return observe(ctx, t.logger, trainingsEntity, "FindCompletedAfter", []any{dateText}, func() ([]types.Training, error) {
		return t.next.FindCompletedAfter(ctx, dateText)
	})
}
