package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saraswati/exam-gateway/internal/model"
)

var (
	ErrExamNotFound = errors.New("no exam found for prefix")
	// ErrMultipleExams means the prefix uniqueness invariant is broken in the
	// store. It is a data-integrity alarm, not a normal branch.
	ErrMultipleExams   = errors.New("multiple exams found for prefix")
	ErrDuplicatePrefix = errors.New("exam with this prefix already exists")
)

const examColumns = `exam_id, exam_name, course_name, created_at, created_for,
	 no_of_questions, valid_till, prefix, time_per_question`

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// GetByPrefix retrieves the single exam owning a prefix. Zero rows yield
// ErrExamNotFound; more than one yields ErrMultipleExams.
func (r *ExamRepository) GetByPrefix(ctx context.Context, prefix string) (*model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams WHERE prefix = $1 LIMIT 2`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.ExamName, &e.CourseName, &e.CreatedAt, &e.CreatedFor,
			&e.NoOfQuestions, &e.ValidTill, &e.Prefix, &e.TimePerQuestion); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(exams) {
	case 0:
		return nil, ErrExamNotFound
	case 1:
		return &exams[0], nil
	default:
		return nil, ErrMultipleExams
	}
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exams (exam_name, course_name, created_for, no_of_questions, valid_till, prefix, time_per_question)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING exam_id, created_at`,
		e.ExamName, e.CourseName, e.CreatedFor, e.NoOfQuestions, e.ValidTill, e.Prefix, e.TimePerQuestion,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicatePrefix
		}
		return fmt.Errorf("insert exam: %w", err)
	}
	return nil
}

// ListAll retrieves every exam, used to prewarm the config cache at startup.
func (r *ExamRepository) ListAll(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+examColumns+` FROM exams ORDER BY exam_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.ExamName, &e.CourseName, &e.CreatedAt, &e.CreatedFor,
			&e.NoOfQuestions, &e.ValidTill, &e.Prefix, &e.TimePerQuestion); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}
