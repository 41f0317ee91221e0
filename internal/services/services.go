package services

import (
	"context"
	"errors"
	"time"

	"github.com/fittrack/apiserver/types"
)

var (
	// ErrUserNotFound is returned when an operation targets a missing user.
	ErrUserNotFound = errors.New("user not found")

	// ErrTrainingNotFound is returned when an operation targets a missing training.
	ErrTrainingNotFound = errors.New("training not found")

	// ErrInvalidDateFormat is returned when a date filter is not yyyy-MM-dd.
	ErrInvalidDateFormat = errors.New("invalid date format, expected yyyy-MM-dd")
)

// Users is the user use-case surface consumed by the transport layer.
type Users interface {
	FindAll(ctx context.Context) ([]types.User, error)
	Get(ctx context.Context, id int64) (types.User, bool, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, id int64, user types.User) (types.User, error)
	Delete(ctx context.Context, id int64) error
	FindByEmailContaining(ctx context.Context, fragment string) ([]types.User, error)
	FindOlderThan(ctx context.Context, years int) ([]types.User, error)
}

// Trainings is the training use-case surface consumed by the transport layer.
type Trainings interface {
	FindAll(ctx context.Context) ([]types.Training, error)
	Get(ctx context.Context, id int64) (types.Training, bool, error)
	Create(ctx context.Context, training types.Training) (types.Training, error)
	Update(ctx context.Context, id int64, training types.Training) (types.Training, error)
	Delete(ctx context.Context, id int64) error
	FindByUser(ctx context.Context, userID int64) ([]types.Training, error)
	FindByActivityType(ctx context.Context, name string) ([]types.Training, error)
	FindCompletedAfter(ctx context.Context, dateText string) ([]types.Training, error)
}

// Change actions reported to a ChangeNotifier.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeNotifier receives a record of every successful write. Implementations
// must not block the caller on delivery failures.
type ChangeNotifier interface {
	Notify(ctx context.Context, entity, action string, id int64, data any)
}

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, string, string, int64, any) {}

type options struct {
	now      func() time.Time
	notifier ChangeNotifier
}

// Option configures a service.
type Option func(*options)

// WithClock overrides the time source used for date arithmetic.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithNotifier publishes changes through n.
func WithNotifier(n ChangeNotifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:      time.Now,
		notifier: discardNotifier{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
