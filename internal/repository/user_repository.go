package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saraswati/exam-gateway/internal/model"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user with this username already exists")
)

const userColumns = `user_id, university_id, student_name, university_email, username,
	 exam_prefix, auth_token, last_logged_in, marks, reset_count, created_at`

// UserRepository handles user data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.UniversityID, &u.StudentName, &u.UniversityEmail, &u.Username,
		&u.ExamPrefix, &u.AuthToken, &u.LastLoggedIn, &u.Marks, &u.ResetCount, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// LockByUsername runs fn with the user row exclusively locked for the
// duration of one transaction. fn may mutate the session fields of the user
// it receives; the mutated row is persisted before commit. An error from fn
// rolls the whole unit back with no mutation.
//
// The lock is held across both the read and the write, so two concurrent
// callers for the same username serialize here and the second one observes
// whatever the first committed.
func (r *UserRepository) LockByUsername(ctx context.Context, username string, fn func(u *model.User) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	u, err := scanUser(tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 FOR UPDATE`, username))
	if err != nil {
		return err
	}

	if err := fn(u); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET auth_token = $1, last_logged_in = $2, marks = $3, reset_count = $4
		 WHERE user_id = $5`,
		u.AuthToken, u.LastLoggedIn, u.Marks, u.ResetCount, u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByUsername retrieves a user by their unique username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// GetByUsernameAndToken retrieves a user only if the given session token is
// the one currently granted to that username.
func (r *UserRepository) GetByUsernameAndToken(ctx context.Context, username, token string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 AND auth_token = $2`, username, token))
}

// CreateBatch inserts users in a single transaction. Any duplicate username
// aborts the whole batch with ErrDuplicateUser.
func (r *UserRepository) CreateBatch(ctx context.Context, users []model.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range users {
		u := &users[i]
		err := tx.QueryRow(ctx,
			`INSERT INTO users (university_id, student_name, university_email, username, exam_prefix)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING user_id, created_at`,
			u.UniversityID, u.StudentName, u.UniversityEmail, u.Username, u.ExamPrefix,
		).Scan(&u.ID, &u.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrDuplicateUser
			}
			return fmt.Errorf("insert user %q: %w", u.Username, err)
		}
	}

	return tx.Commit(ctx)
}

// ListByMarksDesc retrieves all users ordered by marks, highest first.
func (r *UserRepository) ListByMarksDesc(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY marks DESC, username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
