package model

import (
	"time"
)

// Exam is the authoritative record of one exam instance. The prefix is a
// short namespace assigned at creation; it is unique and never changes, and
// every username and cache key belonging to the exam is derived from it.
type Exam struct {
	ID              int64     `json:"exam_id"`
	ExamName        string    `json:"exam_name"`
	CourseName      string    `json:"course_name"`
	CreatedAt       time.Time `json:"created_at"`
	CreatedFor      *int64    `json:"created_for,omitempty"`
	NoOfQuestions   int       `json:"no_of_questions"`
	ValidTill       time.Time `json:"valid_till"`
	Prefix          string    `json:"prefix"`
	TimePerQuestion int       `json:"time_per_question"`
}

// CreateExamRequest is the payload for creating a new exam. Omitted fields
// fall back to server defaults (10 questions, 30 s each, valid 14 days).
type CreateExamRequest struct {
	ExamName        string     `json:"exam_name" binding:"required,min=3,max=255"`
	CourseName      string     `json:"course_name" binding:"omitempty,max=255"`
	CreatedFor      *int64     `json:"created_for" binding:"omitempty"`
	NoOfQuestions   *int       `json:"no_of_questions" binding:"omitempty,min=1,max=10000"`
	TimePerQuestion *int       `json:"time_per_question" binding:"omitempty,min=1,max=3600"`
	ValidTill       *time.Time `json:"valid_till" binding:"omitempty"`
}
