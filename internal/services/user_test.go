package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/apiserver/internal/store"
	"github.com/fittrack/apiserver/internal/store/memory"
	"github.com/fittrack/apiserver/types"
)

var today = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

func newUserService(opts ...Option) (*UserService, *countingUsers) {
	repo := &countingUsers{UserRepository: memory.NewUserRepository()}
	opts = append([]Option{WithClock(fixedClock(today))}, opts...)
	return NewUserService(repo, opts...), repo
}

func TestUserService_CreateAssignsID(t *testing.T) {
	svc, _ := newUserService()

	input := types.User{
		FirstName: "John",
		LastName:  "Doe",
		Birthdate: types.NewDate(1985, time.May, 15),
		Email:     "john.doe@example.com",
	}
	created, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, input.FirstName, created.FirstName)
	assert.Equal(t, input.LastName, created.LastName)
	assert.True(t, input.Birthdate.Equal(created.Birthdate))
	assert.Equal(t, input.Email, created.Email)

	found, err := svc.FindByEmailContaining(context.Background(), "JOHN")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, created, found[0])
}

func TestUserService_CreateDuplicateEmail(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user := types.User{FirstName: "A", LastName: "B", Birthdate: types.NewDate(1990, 1, 1), Email: "dup@example.com"}
	_, err := svc.Create(ctx, user)
	require.NoError(t, err)

	_, err = svc.Create(ctx, user)
	assert.True(t, errors.Is(err, store.ErrConflict))
}

func TestUserService_FindOlderThanBoundary(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	todayDate := types.DateOf(today)
	exactly30 := types.User{FirstName: "Exact", LastName: "X", Birthdate: todayDate.AddYears(-30), Email: "exact@example.com"}
	dayMore := types.User{FirstName: "Older", LastName: "X", Birthdate: todayDate.AddYears(-30).AddDays(-1), Email: "older@example.com"}
	younger := types.User{FirstName: "Young", LastName: "X", Birthdate: todayDate.AddYears(-20), Email: "young@example.com"}

	for _, u := range []types.User{exactly30, dayMore, younger} {
		_, err := svc.Create(ctx, u)
		require.NoError(t, err)
	}

	older, err := svc.FindOlderThan(ctx, 30)
	require.NoError(t, err)
	require.Len(t, older, 1)
	assert.Equal(t, "Older", older[0].FirstName)
}

func TestUserService_FindOlderThanClampsYears(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Create(ctx, types.User{
		FirstName: "Kid",
		LastName:  "X",
		Birthdate: types.NewDate(2020, time.January, 1),
		Email:     "kid@example.com",
	})
	require.NoError(t, err)

	for _, years := range []int{MaxAgeYears, MaxAgeYears + 1, 1 << 40, math.MaxInt} {
		older, err := svc.FindOlderThan(ctx, years)
		require.NoError(t, err)
		assert.Empty(t, older, "years=%d", years)
	}

	// A negative age is treated as zero: anyone born before today.
	older, err := svc.FindOlderThan(ctx, -5)
	require.NoError(t, err)
	assert.Len(t, older, 1)
}

func TestUserService_FindOlderThanUsesUTCDate(t *testing.T) {
	// 23:30 at UTC-5 is already the next day in UTC.
	local := time.Date(2024, time.March, 9, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	svc, _ := newUserService(WithClock(fixedClock(local)))
	ctx := context.Background()

	_, err := svc.Create(ctx, types.User{
		FirstName: "Born",
		LastName:  "March9",
		Birthdate: types.NewDate(1994, time.March, 9),
		Email:     "m9@example.com",
	})
	require.NoError(t, err)

	older, err := svc.FindOlderThan(ctx, 30)
	require.NoError(t, err)
	assert.Len(t, older, 1)
}

func TestUserService_FindByEmailEmptyFragmentMatchesAll(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, _ = svc.Create(ctx, types.User{FirstName: "A", LastName: "A", Birthdate: types.NewDate(1990, 1, 1), Email: "a@example.com"})
	_, _ = svc.Create(ctx, types.User{FirstName: "B", LastName: "B", Birthdate: types.NewDate(1990, 1, 1), Email: "b@example.org"})

	all, err := svc.FindByEmailContaining(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	org, err := svc.FindByEmailContaining(ctx, ".ORG")
	require.NoError(t, err)
	require.Len(t, org, 1)
	assert.Equal(t, "B", org[0].FirstName)
}

func TestUserService_UpdateReplacesFields(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, types.User{FirstName: "John", LastName: "Doe", Birthdate: types.NewDate(1985, 5, 15), Email: "john@example.com"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, types.User{
		ID:        999,
		FirstName: "Jonathan",
		LastName:  "Dough",
		Birthdate: types.NewDate(1986, 6, 16),
		Email:     "jonathan@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Jonathan", updated.FirstName)
	assert.Equal(t, "Dough", updated.LastName)
	assert.Equal(t, "1986-06-16", updated.Birthdate.String())
	assert.Equal(t, "jonathan@example.com", updated.Email)

	stored, found, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, updated, stored)
}

func TestUserService_UpdateMissingWritesNothing(t *testing.T) {
	svc, repo := newUserService()

	_, err := svc.Update(context.Background(), 42, types.User{FirstName: "Ghost"})
	assert.True(t, errors.Is(err, ErrUserNotFound))
	assert.Zero(t, repo.saves)
	assert.Zero(t, repo.Len())
}

func TestUserService_DeleteIsIdempotent(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, types.User{FirstName: "A", LastName: "B", Birthdate: types.NewDate(1990, 1, 1), Email: "a@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, found, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUserService_NotifiesOnWrites(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newUserService(WithNotifier(notifier))
	ctx := context.Background()

	created, err := svc.Create(ctx, types.User{FirstName: "A", LastName: "B", Birthdate: types.NewDate(1990, 1, 1), Email: "a@example.com"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, created.ID, created)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))
	_, _ = svc.Update(ctx, created.ID, created)

	assert.Equal(t, []notification{
		{Entity: "users", Action: ActionCreated, ID: created.ID},
		{Entity: "users", Action: ActionUpdated, ID: created.ID},
		{Entity: "users", Action: ActionDeleted, ID: created.ID},
	}, notifier.all())
}
