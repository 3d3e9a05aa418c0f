package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/saraswati/exam-gateway/internal/model"
	"github.com/saraswati/exam-gateway/internal/repository"
)

// Admission errors.
var (
	ErrMissingField       = errors.New("username is required and must contain an exam prefix")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyLoggedIn    = errors.New("already logged in")
)

// SessionStore provides an exclusive check-and-set on a single user row.
// Implemented by repository.UserRepository with a SELECT ... FOR UPDATE
// transaction; tests substitute an in-process keyed mutex.
type SessionStore interface {
	LockByUsername(ctx context.Context, username string, fn func(u *model.User) error) error
}

var _ SessionStore = (*repository.UserRepository)(nil)

// LoginResult is returned on a successful admission.
type LoginResult struct {
	Token           string
	TimePerQuestion int
	NoOfQuestions   int
}

// AdmissionService owns the login state machine. It grants exactly one
// session token per user per reset cycle.
type AdmissionService struct {
	users    SessionStore
	resolver *ConfigResolver
	log      zerolog.Logger
}

// NewAdmissionService creates a new AdmissionService.
func NewAdmissionService(users SessionStore, resolver *ConfigResolver, log zerolog.Logger) *AdmissionService {
	return &AdmissionService{users: users, resolver: resolver, log: log}
}

// SplitPrefix extracts the exam prefix, separator included, from a username:
// "ab_1001" yields "ab_". An empty username or one without a separator is a
// client error.
func SplitPrefix(username string) (string, error) {
	i := strings.Index(username, "_")
	if username == "" || i < 0 {
		return "", ErrMissingField
	}
	return username[:i+1], nil
}

// Login transitions a user from not-logged-in to logged-in exactly once.
//
// The row lock is held across both the last_logged_in check and the token
// write, so concurrent logins for the same username serialize and at most
// one of them wins; the rest observe ErrAlreadyLoggedIn. Config resolution
// happens after the commit and can never roll the grant back.
func (s *AdmissionService) Login(ctx context.Context, username string) (*LoginResult, error) {
	prefix, err := SplitPrefix(username)
	if err != nil {
		return nil, err
	}

	var token string
	err = s.users.LockByUsername(ctx, username, func(u *model.User) error {
		if u.LastLoggedIn != nil {
			return ErrAlreadyLoggedIn
		}
		t, err := generateToken()
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}
		now := time.Now()
		token = t
		u.AuthToken = &token
		u.LastLoggedIn = &now
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	s.log.Info().Str("username", username).Msg("Session granted")

	// The grant is committed at this point. Whatever happens during config
	// resolution, the user stays logged in.
	cfg, err := s.resolver.Resolve(ctx, prefix)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:           token,
		TimePerQuestion: cfg.TimePerQuestion,
		NoOfQuestions:   cfg.NoOfQuestions,
	}, nil
}

// generateToken returns 32 bytes of CSPRNG output hex-encoded: 64 characters,
// 256 bits, unguessable.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
