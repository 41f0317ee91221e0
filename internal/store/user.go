package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fittrack/apiserver/types"
)

const usersTable = "users"

const selectUserColumns = `
		SELECT id, first_name, last_name, birthdate, email
		FROM users`

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

var _ Gateway[types.User] = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(ctx context.Context, user types.User) (types.User, error) {
	if user.ID == 0 {
		return r.insert(ctx, user)
	}
	return r.upsert(ctx, user)
}

func (r *UserRepository) insert(ctx context.Context, user types.User) (types.User, error) {
	const query = `
		INSERT INTO users (first_name, last_name, birthdate, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.FirstName,
		user.LastName,
		user.Birthdate,
		user.Email,
	).Scan(&user.ID); err != nil {
		return types.User{}, translateError(err)
	}
	return user, nil
}

func (r *UserRepository) upsert(ctx context.Context, user types.User) (types.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.User{}, err
	}
	defer rollback(tx)

	const query = `
		INSERT INTO users (id, first_name, last_name, birthdate, email)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			birthdate = EXCLUDED.birthdate,
			email = EXCLUDED.email,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted`
	var inserted bool
	if err := tx.QueryRowContext(
		ctx,
		query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Birthdate,
		user.Email,
	).Scan(&inserted); err != nil {
		return types.User{}, translateError(err)
	}
	if inserted {
		if err := syncIDSequence(ctx, tx, usersTable); err != nil {
			return types.User{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return types.User{}, translateError(err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (types.User, bool, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, selectUserColumns+`
		WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, false, nil
		}
		return types.User{}, false, err
	}
	return user, true, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]types.User, error) {
	return r.list(ctx, selectUserColumns+`
		ORDER BY id`)
}

// FindByEmailContaining matches email addresses containing fragment,
// ignoring case. An empty fragment matches every user.
func (r *UserRepository) FindByEmailContaining(ctx context.Context, fragment string) ([]types.User, error) {
	return r.list(ctx, selectUserColumns+`
		WHERE strpos(lower(email), lower($1)) > 0
		ORDER BY id`, fragment)
}

// FindByBirthdateBefore returns users born strictly before cutoff.
func (r *UserRepository) FindByBirthdateBefore(ctx context.Context, cutoff types.Date) ([]types.User, error) {
	return r.list(ctx, selectUserColumns+`
		WHERE birthdate < $1
		ORDER BY id`, cutoff)
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return translateError(err)
	}
	return nil
}

func (r *UserRepository) Modify(ctx context.Context, id int64, apply func(*types.User)) (types.User, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.User{}, false, err
	}
	defer rollback(tx)

	user, err := scanUser(tx.QueryRowContext(ctx, selectUserColumns+`
		WHERE id = $1
		FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, false, nil
		}
		return types.User{}, false, err
	}

	apply(&user)
	user.ID = id

	const query = `
		UPDATE users
		SET first_name = $1,
			last_name = $2,
			birthdate = $3,
			email = $4,
			updated_at = NOW()
		WHERE id = $5`
	if _, err := tx.ExecContext(
		ctx,
		query,
		user.FirstName,
		user.LastName,
		user.Birthdate,
		user.Email,
		user.ID,
	); err != nil {
		return types.User{}, false, translateError(err)
	}
	if err := tx.Commit(); err != nil {
		return types.User{}, false, translateError(err)
	}
	return user, true, nil
}

func (r *UserRepository) list(ctx context.Context, query string, args ...any) ([]types.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func scanUser(row rowScanner) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Birthdate,
		&user.Email,
	)
	return user, err
}
