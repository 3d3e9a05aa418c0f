package model

import (
	"time"
)

// User is one student seat for one exam attempt. Usernames are built as
// exam prefix + university id at import time and are unique.
//
// AuthToken is non-nil if and only if LastLoggedIn is non-nil: a logged-in
// session always carries a token and a token is meaningless without an
// active login. The schema enforces the pairing with a CHECK constraint.
type User struct {
	ID              int64      `json:"user_id"`
	UniversityID    *string    `json:"university_id,omitempty"`
	StudentName     string     `json:"student_name"`
	UniversityEmail string     `json:"university_email"`
	Username        string     `json:"username"`
	ExamPrefix      string     `json:"exam_prefix"`
	AuthToken       *string    `json:"-"`
	LastLoggedIn    *time.Time `json:"last_logged_in,omitempty"`
	Marks           int        `json:"marks"`
	ResetCount      int        `json:"reset_count"`
	CreatedAt       time.Time  `json:"created_at"`
}

// LoginRequest is the payload for a student login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

// ResetRequest is the payload for an administrative session reset.
type ResetRequest struct {
	Username string `json:"username" binding:"required"`
}

// QuestionRequest is the payload for fetching the next question.
type QuestionRequest struct {
	Username string `json:"username" binding:"required"`
	Token    string `json:"token" binding:"required"`
}
