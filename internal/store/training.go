package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fittrack/apiserver/types"
)

const trainingsTable = "trainings"

const selectTrainingColumns = `
		SELECT id, user_id, start_time, end_time, activity_type, distance, average_speed
		FROM trainings`

// TrainingRepository handles persistence for trainings.
type TrainingRepository struct {
	db *sql.DB
}

var _ Gateway[types.Training] = (*TrainingRepository)(nil)

func NewTrainingRepository(db *sql.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

func (r *TrainingRepository) Save(ctx context.Context, training types.Training) (types.Training, error) {
	if training.ID == 0 {
		return r.insert(ctx, training)
	}
	return r.upsert(ctx, training)
}

func (r *TrainingRepository) insert(ctx context.Context, training types.Training) (types.Training, error) {
	const query = `
		INSERT INTO trainings (user_id, start_time, end_time, activity_type, distance, average_speed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		training.UserID,
		training.StartTime,
		training.EndTime,
		training.ActivityType,
		training.Distance,
		training.AverageSpeed,
	).Scan(&training.ID); err != nil {
		return types.Training{}, translateError(err)
	}
	return training, nil
}

func (r *TrainingRepository) upsert(ctx context.Context, training types.Training) (types.Training, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Training{}, err
	}
	defer rollback(tx)

	const query = `
		INSERT INTO trainings (id, user_id, start_time, end_time, activity_type, distance, average_speed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET user_id = EXCLUDED.user_id,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			activity_type = EXCLUDED.activity_type,
			distance = EXCLUDED.distance,
			average_speed = EXCLUDED.average_speed,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted`
	var inserted bool
	if err := tx.QueryRowContext(
		ctx,
		query,
		training.ID,
		training.UserID,
		training.StartTime,
		training.EndTime,
		training.ActivityType,
		training.Distance,
		training.AverageSpeed,
	).Scan(&inserted); err != nil {
		return types.Training{}, translateError(err)
	}
	if inserted {
		if err := syncIDSequence(ctx, tx, trainingsTable); err != nil {
			return types.Training{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return types.Training{}, translateError(err)
	}
	return training, nil
}

func (r *TrainingRepository) FindByID(ctx context.Context, id int64) (types.Training, bool, error) {
	training, err := scanTraining(r.db.QueryRowContext(ctx, selectTrainingColumns+`
		WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Training{}, false, nil
		}
		return types.Training{}, false, err
	}
	return training, true, nil
}

func (r *TrainingRepository) FindAll(ctx context.Context) ([]types.Training, error) {
	return r.list(ctx, selectTrainingColumns+`
		ORDER BY id`)
}

func (r *TrainingRepository) FindByUserID(ctx context.Context, userID int64) ([]types.Training, error) {
	return r.list(ctx, selectTrainingColumns+`
		WHERE user_id = $1
		ORDER BY id`, userID)
}

// FindByEndTimeAfter returns trainings that ended strictly after instant.
func (r *TrainingRepository) FindByEndTimeAfter(ctx context.Context, instant time.Time) ([]types.Training, error) {
	return r.list(ctx, selectTrainingColumns+`
		WHERE end_time > $1
		ORDER BY id`, instant)
}

// FindByActivityType matches the stored activity type name exactly.
func (r *TrainingRepository) FindByActivityType(ctx context.Context, name string) ([]types.Training, error) {
	return r.list(ctx, selectTrainingColumns+`
		WHERE activity_type = $1
		ORDER BY id`, name)
}

func (r *TrainingRepository) DeleteByID(ctx context.Context, id int64) error {
	const query = `DELETE FROM trainings WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return translateError(err)
	}
	return nil
}

func (r *TrainingRepository) Modify(ctx context.Context, id int64, apply func(*types.Training)) (types.Training, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Training{}, false, err
	}
	defer rollback(tx)

	training, err := scanTraining(tx.QueryRowContext(ctx, selectTrainingColumns+`
		WHERE id = $1
		FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Training{}, false, nil
		}
		return types.Training{}, false, err
	}

	apply(&training)
	training.ID = id

	const query = `
		UPDATE trainings
		SET user_id = $1,
			start_time = $2,
			end_time = $3,
			activity_type = $4,
			distance = $5,
			average_speed = $6,
			updated_at = NOW()
		WHERE id = $7`
	if _, err := tx.ExecContext(
		ctx,
		query,
		training.UserID,
		training.StartTime,
		training.EndTime,
		training.ActivityType,
		training.Distance,
		training.AverageSpeed,
		training.ID,
	); err != nil {
		return types.Training{}, false, translateError(err)
	}
	if err := tx.Commit(); err != nil {
		return types.Training{}, false, translateError(err)
	}
	return training, true, nil
}

func (r *TrainingRepository) list(ctx context.Context, query string, args ...any) ([]types.Training, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trainings := make([]types.Training, 0)
	for rows.Next() {
		training, err := scanTraining(rows)
		if err != nil {
			return nil, err
		}
		trainings = append(trainings, training)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trainings, nil
}

func scanTraining(row rowScanner) (types.Training, error) {
	var training types.Training
	var userID sql.NullInt64
	err := row.Scan(
		&training.ID,
		&userID,
		&training.StartTime,
		&training.EndTime,
		&training.ActivityType,
		&training.Distance,
		&training.AverageSpeed,
	)
	if err != nil {
		return types.Training{}, err
	}
	if userID.Valid {
		id := userID.Int64
		training.UserID = &id
	}
	return training, nil
}
