package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saraswati/exam-gateway/internal/cache"
	"github.com/saraswati/exam-gateway/internal/model"
	"github.com/saraswati/exam-gateway/internal/repository"
	"github.com/saraswati/exam-gateway/internal/service"
	"github.com/saraswati/exam-gateway/internal/validator"
)

// memUsers is an in-process SessionStore. Mutations inside the closure only
// stick when the closure returns nil, like the backing transaction.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func (m *memUsers) LockByUsername(ctx context.Context, username string, fn func(u *model.User) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return repository.ErrUserNotFound
	}
	working := *u
	if err := fn(&working); err != nil {
		return err
	}
	*u = working
	return nil
}

type memCache struct{}

func (memCache) Get(ctx context.Context, key string) cache.Lookup {
	return cache.Lookup{State: cache.Miss}
}

func (memCache) Set(ctx context.Context, key, value string) {}

type memExams struct {
	exams map[string]*model.Exam
}

func (m *memExams) GetByPrefix(ctx context.Context, prefix string) (*model.Exam, error) {
	e, ok := m.exams[prefix]
	if !ok {
		return nil, repository.ErrExamNotFound
	}
	return e, nil
}

func (m *memExams) ListAll(ctx context.Context) ([]model.Exam, error) {
	var out []model.Exam
	for _, e := range m.exams {
		out = append(out, *e)
	}
	return out, nil
}

type envelope struct {
	IsSuccess bool            `json:"is_success"`
	Data      json.RawMessage `json:"data"`
	Error     *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newSessionRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Setup()

	users := &memUsers{users: map[string]*model.User{
		"ab_1001": {ID: 1, Username: "ab_1001", ExamPrefix: "ab_"},
	}}
	exams := &memExams{exams: map[string]*model.Exam{
		"ab_": {ID: 1, Prefix: "ab_", TimePerQuestion: 45, NoOfQuestions: 12},
	}}

	log := zerolog.Nop()
	resolver := service.NewConfigResolver(memCache{}, exams, log)
	admission := service.NewAdmissionService(users, resolver, log)
	reset := service.NewResetService(users, log)
	h := NewSessionHandler(admission, reset)

	r := gin.New()
	r.POST("/api/login", h.Login)
	r.POST("/api/exam/reset", h.Reset)
	return r
}

func post(t *testing.T, r *gin.Engine, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestLogin_GrantsTokenAndConfig(t *testing.T) {
	r := newSessionRouter(t)

	status, env := post(t, r, "/api/login", `{"username":"ab_1001"}`)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.IsSuccess)

	var data struct {
		Token           string `json:"token"`
		TimePerQuestion int    `json:"time_per_question"`
		TotalQuestions  int    `json:"total_questions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), data.Token)
	assert.Equal(t, 45, data.TimePerQuestion)
	assert.Equal(t, 12, data.TotalQuestions)
}

func TestLogin_SecondAttemptRejectedWith406(t *testing.T) {
	r := newSessionRouter(t)

	status, _ := post(t, r, "/api/login", `{"username":"ab_1001"}`)
	require.Equal(t, http.StatusOK, status)

	status, env := post(t, r, "/api/login", `{"username":"ab_1001"}`)
	assert.Equal(t, http.StatusNotAcceptable, status)
	assert.False(t, env.IsSuccess)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ALREADY_LOGGED_IN", env.Error.Code)
}

func TestLogin_UnknownUserIs401(t *testing.T) {
	r := newSessionRouter(t)

	status, env := post(t, r, "/api/login", `{"username":"ab_9999"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
}

func TestLogin_UsernameWithoutPrefixIs400(t *testing.T) {
	r := newSessionRouter(t)

	status, env := post(t, r, "/api/login", `{"username":"nodash"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "MISSING_FIELD", env.Error.Code)
}

func TestLogin_MissingBodyFieldIs400(t *testing.T) {
	r := newSessionRouter(t)

	status, env := post(t, r, "/api/login", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestReset_NeverLoggedInIsNoOpNotError(t *testing.T) {
	r := newSessionRouter(t)

	status, env := post(t, r, "/api/exam/reset", `{"username":"ab_1001"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.False(t, env.IsSuccess)
	assert.Nil(t, env.Error)

	var data struct {
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Reason)
}

func TestReset_ReopensAdmission(t *testing.T) {
	r := newSessionRouter(t)

	status, _ := post(t, r, "/api/login", `{"username":"ab_1001"}`)
	require.Equal(t, http.StatusOK, status)

	status, env := post(t, r, "/api/exam/reset", `{"username":"ab_1001"}`)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.IsSuccess)

	status, env = post(t, r, "/api/login", `{"username":"ab_1001"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.IsSuccess)
}
