package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/saraswati/exam-gateway/internal/model"
	"github.com/saraswati/exam-gateway/internal/repository"
)

// ResetResult reports the outcome of a session reset. A user who never
// logged in yields IsSuccess=false with a reason; that is an allowed
// outcome, not an error.
type ResetResult struct {
	IsSuccess bool
	Reason    string
}

// ResetService administratively clears a user's session state so they can
// log in again. It touches only the user row, never the config cache.
type ResetService struct {
	users SessionStore
	log   zerolog.Logger
}

// NewResetService creates a new ResetService.
func NewResetService(users SessionStore, log zerolog.Logger) *ResetService {
	return &ResetService{users: users, log: log}
}

// Reset clears last_logged_in and the token, zeroes marks and bumps the
// reset counter. Runs under the same row lock as Login so a reset cannot
// interleave with a concurrent grant.
func (s *ResetService) Reset(ctx context.Context, username string) (*ResetResult, error) {
	if username == "" {
		return nil, ErrMissingField
	}

	res := &ResetResult{}
	err := s.users.LockByUsername(ctx, username, func(u *model.User) error {
		if u.LastLoggedIn == nil {
			res.Reason = "never logged in"
			return nil
		}
		u.LastLoggedIn = nil
		u.AuthToken = nil
		u.Marks = 0
		u.ResetCount++
		res.IsSuccess = true
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if res.IsSuccess {
		s.log.Info().Str("username", username).Msg("Session reset")
	}
	return res, nil
}
