package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
	"github.com/saraswati/exam-gateway/internal/model"
	"github.com/saraswati/exam-gateway/internal/questionbank"
	"github.com/saraswati/exam-gateway/internal/repository"
)

// ErrInvalidToken means the (username, token) pair does not match an active
// session. Deliberately indistinguishable from a wrong username.
var ErrInvalidToken = errors.New("user not logged in or invalid token")

// TokenStore verifies a session token against the user store.
type TokenStore interface {
	GetByUsernameAndToken(ctx context.Context, username, token string) (*model.User, error)
}

var _ TokenStore = (*repository.UserRepository)(nil)

// QuestionBank is the outbound surface to the external question service.
type QuestionBank interface {
	FetchQuestion(ctx context.Context, username string, questionLimit int) (json.RawMessage, error)
	AddQuestion(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
	SubmitAnswer(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
	SubmitFeedback(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
}

var _ QuestionBank = (*questionbank.Client)(nil)

// QuestionService fronts the question bank: it authenticates the student's
// session token, resolves the exam's question limit, and hands off.
type QuestionService struct {
	users    TokenStore
	resolver *ConfigResolver
	qbank    QuestionBank
	log      zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(users TokenStore, resolver *ConfigResolver, qbank QuestionBank, log zerolog.Logger) *QuestionService {
	return &QuestionService{users: users, resolver: resolver, qbank: qbank, log: log}
}

// FetchQuestion validates the session and proxies the question fetch, using
// the resolved question count as the bank's limit parameter.
func (s *QuestionService) FetchQuestion(ctx context.Context, username, token string) (json.RawMessage, error) {
	prefix, err := SplitPrefix(username)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrMissingField
	}

	if _, err := s.users.GetByUsernameAndToken(ctx, username, token); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	cfg, err := s.resolver.Resolve(ctx, prefix)
	if err != nil {
		return nil, err
	}

	return s.qbank.FetchQuestion(ctx, username, cfg.NoOfQuestions)
}

// AddQuestion passes an admin's question payload through to the bank.
func (s *QuestionService) AddQuestion(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return s.qbank.AddQuestion(ctx, payload)
}

// SubmitAnswer passes a student's answer payload through to the bank.
func (s *QuestionService) SubmitAnswer(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return s.qbank.SubmitAnswer(ctx, payload)
}

// SubmitFeedback passes a feedback payload through to the bank.
func (s *QuestionService) SubmitFeedback(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return s.qbank.SubmitFeedback(ctx, payload)
}
