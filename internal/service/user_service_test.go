package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saraswati/exam-gateway/internal/model"
	"github.com/saraswati/exam-gateway/internal/repository"
)

const sampleCSV = `student_name,university_email,university_id
Asha,asha@uni.edu,1001
Bilal,bilal@uni.edu,1002
`

func TestImportCSV_BuildsPrefixedUsernames(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, zerolog.Nop())

	count, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV), "ab_")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	u := users.get("ab_1001")
	require.NotNil(t, u)
	assert.Equal(t, "Asha", u.StudentName)
	assert.Equal(t, "ab_", u.ExamPrefix)
	require.NotNil(t, u.UniversityID)
	assert.Equal(t, "1001", *u.UniversityID)
	assert.NotNil(t, users.get("ab_1002"))
}

func TestImportCSV_MissingPrefix(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), zerolog.Nop())

	_, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV), "")
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestImportCSV_MissingColumn(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), zerolog.Nop())

	csv := "student_name,university_email\nAsha,asha@uni.edu\n"
	_, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), "ab_")
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestImportCSV_DuplicateAbortsBatch(t *testing.T) {
	users := newFakeUserStore(&model.User{Username: "ab_1001"})
	svc := NewUserService(users, zerolog.Nop())

	_, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV), "ab_")
	assert.ErrorIs(t, err, repository.ErrDuplicateUser)
	assert.Nil(t, users.get("ab_1002"), "batch is all-or-nothing")
}

func TestExportCSV_OrderedByMarks(t *testing.T) {
	users := newFakeUserStore(
		&model.User{Username: "ab_1001", StudentName: "Asha", UniversityEmail: "asha@uni.edu", Marks: 5},
		&model.User{Username: "ab_1002", StudentName: "Bilal", UniversityEmail: "bilal@uni.edu", Marks: 9},
	)
	svc := NewUserService(users, zerolog.Nop())

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "username,student_name,university_email,marks,reset_count", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "ab_1002,"), "highest marks first")
	assert.True(t, strings.HasPrefix(lines[2], "ab_1001,"))
}
