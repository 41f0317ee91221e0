package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fittrack/apiserver/internal/store"
	"github.com/fittrack/apiserver/types"
)

const usersEntity = "users"

// UserRepository defines persistence operations for users.
type UserRepository interface {
	store.Gateway[types.User]
	FindByEmailContaining(ctx context.Context, fragment string) ([]types.User, error)
	FindByBirthdateBefore(ctx context.Context, cutoff types.Date) ([]types.User, error)
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo     UserRepository
	now      func() time.Time
	notifier ChangeNotifier
}

var _ Users = (*UserService)(nil)

func NewUserService(repo UserRepository, opts ...Option) *UserService {
	o := buildOptions(opts)
	return &UserService{
		repo:     repo,
		now:      o.now,
		notifier: o.notifier,
	}
}

func (s *UserService) FindAll(ctx context.Context) ([]types.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (types.User, bool, error) {
	return s.repo.FindByID(ctx, id)
}

// Create persists the user as given. Email uniqueness is left to storage and
// surfaces as store.ErrConflict.
func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	created, err := s.repo.Save(ctx, user)
	if err != nil {
		return types.User{}, err
	}
	s.notifier.Notify(ctx, usersEntity, ActionCreated, created.ID, created)
	return created, nil
}

// Update replaces every field of the stored user with the given values. The
// identifier in user is ignored in favour of id.
func (s *UserService) Update(ctx context.Context, id int64, user types.User) (types.User, error) {
	updated, found, err := s.repo.Modify(ctx, id, func(current *types.User) {
		current.FirstName = user.FirstName
		current.LastName = user.LastName
		current.Birthdate = user.Birthdate
		current.Email = user.Email
	})
	if err != nil {
		return types.User{}, err
	}
	if !found {
		return types.User{}, fmt.Errorf("update user %d: %w", id, ErrUserNotFound)
	}
	s.notifier.Notify(ctx, usersEntity, ActionUpdated, updated.ID, updated)
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.notifier.Notify(ctx, usersEntity, ActionDeleted, id, nil)
	return nil
}

func (s *UserService) FindByEmailContaining(ctx context.Context, fragment string) ([]types.User, error) {
	return s.repo.FindByEmailContaining(ctx, fragment)
}

// MaxAgeYears bounds the age accepted by FindOlderThan.
const MaxAgeYears = 200

// FindOlderThan returns users born strictly before today minus years, so a
// user whose birthday is today and who turns exactly years is excluded.
// years is clamped to [0, MaxAgeYears]; the cutoff never lands after today.
func (s *UserService) FindOlderThan(ctx context.Context, years int) ([]types.User, error) {
	years = min(max(years, 0), MaxAgeYears)
	cutoff := types.DateOf(s.now().UTC()).AddYears(-years)
	return s.repo.FindByBirthdateBefore(ctx, cutoff)
}
