package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/saraswati/exam-gateway/internal/model"
	"github.com/saraswati/exam-gateway/internal/repository"
)

// UserStore is the bulk-import and export surface of the user store.
type UserStore interface {
	CreateBatch(ctx context.Context, users []model.User) error
	ListByMarksDesc(ctx context.Context) ([]model.User, error)
}

var _ UserStore = (*repository.UserRepository)(nil)

// UserService imports exam seats from CSV and exports results. Import is an
// administrative bulk operation; the core never deletes users.
type UserService struct {
	users UserStore
	log   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

// ImportCSV reads rows of (student_name, university_email, university_id)
// and inserts one user per row, with username = examPrefix + university_id.
// The whole file is one transaction: a duplicate username aborts everything.
func (s *UserService) ImportCSV(ctx context.Context, r io.Reader, examPrefix string) (int, error) {
	if examPrefix == "" {
		return 0, ErrMissingField
	}

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"student_name", "university_email", "university_id"} {
		if _, ok := col[required]; !ok {
			return 0, fmt.Errorf("%w: csv is missing column %q", ErrMissingField, required)
		}
	}

	var users []model.User
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv row: %w", err)
		}
		universityID := record[col["university_id"]]
		users = append(users, model.User{
			StudentName:     record[col["student_name"]],
			UniversityEmail: record[col["university_email"]],
			UniversityID:    &universityID,
			ExamPrefix:      examPrefix,
			Username:        examPrefix + universityID,
		})
	}

	if err := s.users.CreateBatch(ctx, users); err != nil {
		return 0, err
	}

	s.log.Info().Int("count", len(users)).Str("prefix", examPrefix).Msg("Users imported")
	return len(users), nil
}

// ExportCSV writes all users as CSV, best marks first.
func (s *UserService) ExportCSV(ctx context.Context, w io.Writer) error {
	users, err := s.users.ListByMarksDesc(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"username", "student_name", "university_email", "marks", "reset_count"}); err != nil {
		return err
	}
	for _, u := range users {
		row := []string{u.Username, u.StudentName, u.UniversityEmail,
			strconv.Itoa(u.Marks), strconv.Itoa(u.ResetCount)}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
