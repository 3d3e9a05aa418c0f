package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saraswati/exam-gateway/internal/model"
	"github.com/saraswati/exam-gateway/internal/response"
	"github.com/saraswati/exam-gateway/internal/service"
	"github.com/saraswati/exam-gateway/internal/validator"
)

// ExamHandler handles exam administration endpoints.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// CreateExam godoc
// POST /api/create_exam (admin)
// Creates an exam with server-filled defaults and a fresh unique prefix.
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrMissingField) {
			response.Fail(c, http.StatusBadRequest, response.ErrMissingField)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"exam": exam})
}
