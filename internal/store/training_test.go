package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/apiserver/types"
)

var trainingColumns = []string{"id", "user_id", "start_time", "end_time", "activity_type", "distance", "average_speed"}

var (
	morningStart = time.Date(2023, time.June, 1, 10, 15, 30, 0, time.UTC)
	morningEnd   = time.Date(2023, time.June, 1, 11, 15, 30, 0, time.UTC)
)

func morningRun(userID *int64) types.Training {
	return types.Training{
		UserID:       userID,
		StartTime:    morningStart,
		EndTime:      morningEnd,
		ActivityType: types.ActivityRunning,
		Distance:     5,
		AverageSpeed: 10,
	}
}

func TestTrainingRepository_SaveInserts(t *testing.T) {
	mock, _, trainings := newMock(t)

	owner := int64(7)
	mock.ExpectQuery("INSERT INTO trainings").
		WithArgs(int64(7), morningStart, morningEnd, "RUNNING", 5.0, 10.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	saved, err := trainings().Save(context.Background(), morningRun(&owner))
	require.NoError(t, err)
	assert.Equal(t, int64(3), saved.ID)
	assert.Equal(t, types.ActivityRunning, saved.ActivityType)
}

func TestTrainingRepository_SaveWithoutOwnerSendsNull(t *testing.T) {
	mock, _, trainings := newMock(t)

	mock.ExpectQuery("INSERT INTO trainings").
		WithArgs(nil, morningStart, morningEnd, "RUNNING", 5.0, 10.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	saved, err := trainings().Save(context.Background(), morningRun(nil))
	require.NoError(t, err)
	assert.Nil(t, saved.UserID)
}

func TestTrainingRepository_SaveUnknownOwnerIsConflict(t *testing.T) {
	mock, _, trainings := newMock(t)

	owner := int64(99)
	mock.ExpectQuery("INSERT INTO trainings").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "trainings_user_id_fkey"})

	_, err := trainings().Save(context.Background(), morningRun(&owner))
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestTrainingRepository_UpsertExistingSkipsSequence(t *testing.T) {
	mock, _, trainings := newMock(t)

	training := morningRun(nil)
	training.ID = 4

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO trainings .* ON CONFLICT").
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(false))
	mock.ExpectCommit()

	saved, err := trainings().Save(context.Background(), training)
	require.NoError(t, err)
	assert.Equal(t, training, saved)
}

func TestTrainingRepository_FindByEndTimeAfter(t *testing.T) {
	mock, _, trainings := newMock(t)

	cutoff := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("WHERE end_time > \\$1 ORDER BY id").
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows(trainingColumns).
			AddRow(int64(1), int64(7), morningStart, morningEnd, "RUNNING", 5.0, 10.0).
			AddRow(int64(2), nil, morningStart, morningEnd, "SWIMMING", 1.5, 2.0))

	found, err := trainings().FindByEndTimeAfter(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.NotNil(t, found[0].UserID)
	assert.Equal(t, int64(7), *found[0].UserID)
	assert.Nil(t, found[1].UserID)
	assert.Equal(t, types.ActivitySwimming, found[1].ActivityType)
}

func TestTrainingRepository_FindByActivityType(t *testing.T) {
	mock, _, trainings := newMock(t)

	mock.ExpectQuery("WHERE activity_type = \\$1").
		WithArgs("CYCLING").
		WillReturnRows(sqlmock.NewRows(trainingColumns))

	found, err := trainings().FindByActivityType(context.Background(), "CYCLING")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestTrainingRepository_FindByUserID(t *testing.T) {
	mock, _, trainings := newMock(t)

	mock.ExpectQuery("WHERE user_id = \\$1").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(trainingColumns).
			AddRow(int64(1), int64(7), morningStart, morningEnd, "TENNIS", 0.0, 0.0))

	found, err := trainings().FindByUserID(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, types.ActivityTennis, found[0].ActivityType)
}

func TestTrainingRepository_ScanRejectsUnknownActivity(t *testing.T) {
	mock, _, trainings := newMock(t)

	mock.ExpectQuery("FROM trainings WHERE id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(trainingColumns).
			AddRow(int64(1), nil, morningStart, morningEnd, "ROWING", 0.0, 0.0))

	_, _, err := trainings().FindByID(context.Background(), 1)
	assert.Error(t, err)
}

func TestTrainingRepository_ModifyMissingWritesNothing(t *testing.T) {
	mock, _, trainings := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM trainings WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(trainingColumns))
	mock.ExpectRollback()

	_, found, err := trainings().Modify(context.Background(), 8, func(*types.Training) {})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTrainingRepository_ModifyUpdatesEveryField(t *testing.T) {
	mock, _, trainings := newMock(t)

	owner := int64(2)
	later := morningEnd.Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(trainingColumns).
			AddRow(int64(1), nil, morningStart, morningEnd, "RUNNING", 5.0, 10.0))
	mock.ExpectExec("UPDATE trainings").
		WithArgs(int64(2), morningStart, later, "WALKING", 6.0, 4.0, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, found, err := trainings().Modify(context.Background(), 1, func(tr *types.Training) {
		tr.UserID = &owner
		tr.EndTime = later
		tr.ActivityType = types.ActivityWalking
		tr.Distance = 6
		tr.AverageSpeed = 4
	})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, types.ActivityWalking, updated.ActivityType)
}
