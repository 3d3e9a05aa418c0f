package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saraswati/exam-gateway/internal/model"
	"github.com/saraswati/exam-gateway/internal/repository"
)

var prefixPattern = regexp.MustCompile(`^[a-z]{2}_$`)

// fakeExamWriter captures created exams and can fail the first N attempts
// with a duplicate-prefix error.
type fakeExamWriter struct {
	created  []model.Exam
	failNext int
	attempts int
}

func (w *fakeExamWriter) Create(ctx context.Context, e *model.Exam) error {
	w.attempts++
	if w.failNext > 0 {
		w.failNext--
		return repository.ErrDuplicatePrefix
	}
	e.ID = int64(len(w.created) + 1)
	e.CreatedAt = time.Now()
	w.created = append(w.created, *e)
	return nil
}

func TestCreateExam_Defaults(t *testing.T) {
	writer := &fakeExamWriter{}
	svc := NewExamService(writer, zerolog.Nop())

	before := time.Now()
	exam, err := svc.Create(context.Background(), &model.CreateExamRequest{ExamName: "Midterm"})
	require.NoError(t, err)

	assert.Equal(t, "Midterm", exam.ExamName)
	assert.Equal(t, "Engg.", exam.CourseName)
	assert.Equal(t, 10, exam.NoOfQuestions)
	assert.Equal(t, 30, exam.TimePerQuestion)
	assert.Regexp(t, prefixPattern, exam.Prefix)
	assert.NotEqual(t, exam.Prefix[0], exam.Prefix[1], "prefix letters are distinct")

	wantValidTill := before.Add(14 * 24 * time.Hour)
	assert.WithinDuration(t, wantValidTill, exam.ValidTill, time.Minute)
}

func TestCreateExam_Overrides(t *testing.T) {
	writer := &fakeExamWriter{}
	svc := NewExamService(writer, zerolog.Nop())

	noq, tpq := 50, 120
	validTill := time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC)
	exam, err := svc.Create(context.Background(), &model.CreateExamRequest{
		ExamName:        "Finals",
		CourseName:      "Physics",
		NoOfQuestions:   &noq,
		TimePerQuestion: &tpq,
		ValidTill:       &validTill,
	})
	require.NoError(t, err)

	assert.Equal(t, "Physics", exam.CourseName)
	assert.Equal(t, 50, exam.NoOfQuestions)
	assert.Equal(t, 120, exam.TimePerQuestion)
	assert.True(t, exam.ValidTill.Equal(validTill))
}

func TestCreateExam_RetriesOnPrefixCollision(t *testing.T) {
	writer := &fakeExamWriter{failNext: 2}
	svc := NewExamService(writer, zerolog.Nop())

	exam, err := svc.Create(context.Background(), &model.CreateExamRequest{ExamName: "Quiz"})
	require.NoError(t, err)
	assert.Equal(t, 3, writer.attempts)
	assert.Regexp(t, prefixPattern, exam.Prefix)
}

func TestRandomPrefix_Shape(t *testing.T) {
	for i := 0; i < 200; i++ {
		p := randomPrefix()
		require.Regexp(t, prefixPattern, p)
		require.NotEqual(t, p[0], p[1], "letters must differ: %q", p)
	}
}
