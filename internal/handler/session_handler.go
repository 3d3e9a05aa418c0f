package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saraswati/exam-gateway/internal/model"
	"github.com/saraswati/exam-gateway/internal/repository"
	"github.com/saraswati/exam-gateway/internal/response"
	"github.com/saraswati/exam-gateway/internal/service"
	"github.com/saraswati/exam-gateway/internal/validator"
)

// SessionHandler handles login, reset, and liveness endpoints.
type SessionHandler struct {
	admissionService *service.AdmissionService
	resetService     *service.ResetService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(admissionService *service.AdmissionService, resetService *service.ResetService) *SessionHandler {
	return &SessionHandler{
		admissionService: admissionService,
		resetService:     resetService,
	}
}

// Login godoc
// POST /api/login
// Grants a session token for a first login and returns the exam's config.
// A user with an active session is rejected with 406.
func (h *SessionHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.admissionService.Login(c.Request.Context(), req.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingField):
			response.Fail(c, http.StatusBadRequest, response.ErrMissingField)
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		case errors.Is(err, service.ErrAlreadyLoggedIn):
			response.Fail(c, http.StatusNotAcceptable, response.ErrAlreadyLoggedIn)
		case errors.Is(err, repository.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		case errors.Is(err, repository.ErrMultipleExams):
			response.Fail(c, http.StatusConflict, response.ErrMultipleExams)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":             result.Token,
		"time_per_question": result.TimePerQuestion,
		"total_questions":   result.NoOfQuestions,
	})
}

// Reset godoc
// POST /api/exam/reset
// Clears a user's session state so they can log in again. A user who never
// logged in yields is_success=false with a reason, not an error.
func (h *SessionHandler) Reset(c *gin.Context) {
	var req model.ResetRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.resetService.Reset(c.Request.Context(), req.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingField):
			response.Fail(c, http.StatusBadRequest, response.ErrMissingField)
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	if !result.IsSuccess {
		// Allowed no-op outcome, reported on a 200.
		response.Outcome(c, http.StatusOK, false, gin.H{"reason": result.Reason})
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Ping godoc
// POST /api/ping
func (h *SessionHandler) Ping(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"ping": "pong"})
}
