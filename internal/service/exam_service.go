package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/saraswati/exam-gateway/internal/model"
	"github.com/saraswati/exam-gateway/internal/repository"
)

const (
	defaultNoOfQuestions   = 10
	defaultTimePerQuestion = 30
	defaultValidity        = 14 * 24 * time.Hour
	defaultCourseName      = "Engg."

	// prefixAttempts bounds retries when a freshly drawn prefix collides
	// with an existing exam. There are only 650 two-letter prefixes.
	prefixAttempts = 10
)

// ExamWriter creates authoritative exam rows.
type ExamWriter interface {
	Create(ctx context.Context, e *model.Exam) error
}

var _ ExamWriter = (*repository.ExamRepository)(nil)

// ExamService creates exams and assigns their student-facing prefixes.
type ExamService struct {
	exams ExamWriter
	log   zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(exams ExamWriter, log zerolog.Logger) *ExamService {
	return &ExamService{exams: exams, log: log}
}

// Create persists a new exam, filling defaults for omitted fields and
// assigning a random prefix. The prefix is immutable once the row exists;
// a collision with an existing exam just draws again.
func (s *ExamService) Create(ctx context.Context, req *model.CreateExamRequest) (*model.Exam, error) {
	exam := &model.Exam{
		ExamName:        req.ExamName,
		CourseName:      defaultCourseName,
		CreatedFor:      req.CreatedFor,
		NoOfQuestions:   defaultNoOfQuestions,
		TimePerQuestion: defaultTimePerQuestion,
		ValidTill:       time.Now().Add(defaultValidity),
	}
	if req.CourseName != "" {
		exam.CourseName = req.CourseName
	}
	if req.NoOfQuestions != nil {
		exam.NoOfQuestions = *req.NoOfQuestions
	}
	if req.TimePerQuestion != nil {
		exam.TimePerQuestion = *req.TimePerQuestion
	}
	if req.ValidTill != nil {
		exam.ValidTill = *req.ValidTill
	}

	for attempt := 0; attempt < prefixAttempts; attempt++ {
		exam.Prefix = randomPrefix()
		err := s.exams.Create(ctx, exam)
		if err == nil {
			s.log.Info().Str("prefix", exam.Prefix).Str("exam_name", exam.ExamName).Msg("Exam created")
			return exam, nil
		}
		if !errors.Is(err, repository.ErrDuplicatePrefix) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("assign prefix: no free prefix after %d attempts", prefixAttempts)
}

// randomPrefix draws two distinct lowercase letters and appends the
// separator, e.g. "ab_".
func randomPrefix() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	a := rand.Intn(len(letters))
	b := rand.Intn(len(letters) - 1)
	if b >= a {
		b++
	}
	return string([]byte{letters[a], letters[b], '_'})
}
