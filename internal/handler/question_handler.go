package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saraswati/exam-gateway/internal/model"
	"github.com/saraswati/exam-gateway/internal/questionbank"
	"github.com/saraswati/exam-gateway/internal/repository"
	"github.com/saraswati/exam-gateway/internal/response"
	"github.com/saraswati/exam-gateway/internal/service"
	"github.com/saraswati/exam-gateway/internal/validator"
)

// QuestionHandler proxies question-bank operations.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// FetchQuestion godoc
// POST /api/question
// Validates the session token and fetches the next question from the bank.
func (h *QuestionHandler) FetchQuestion(c *gin.Context) {
	var req model.QuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	payload, err := h.questionService.FetchQuestion(c.Request.Context(), req.Username, req.Token)
	if err != nil {
		h.failQuestionPath(c, err)
		return
	}

	relayJSON(c, payload)
}

// AddQuestion godoc
// POST /api/question/add (admin)
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	h.proxy(c, h.questionService.AddQuestion)
}

// SubmitAnswer godoc
// POST /api/answer/submit (admin)
func (h *QuestionHandler) SubmitAnswer(c *gin.Context) {
	h.proxy(c, h.questionService.SubmitAnswer)
}

// SubmitFeedback godoc
// POST /api/submit/feedback (admin)
func (h *QuestionHandler) SubmitFeedback(c *gin.Context) {
	h.proxy(c, h.questionService.SubmitFeedback)
}

// proxy forwards the raw request body to one of the bank's endpoints and
// relays whatever comes back.
func (h *QuestionHandler) proxy(c *gin.Context, call func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrMissingField)
		return
	}
	if !json.Valid(body) {
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		return
	}

	payload, err := call(c.Request.Context(), body)
	if err != nil {
		h.failQuestionPath(c, err)
		return
	}

	relayJSON(c, payload)
}

// failQuestionPath maps question-path errors to responses. Upstream errors
// are passed through with their original status and payload.
func (h *QuestionHandler) failQuestionPath(c *gin.Context, err error) {
	var upstream *questionbank.UpstreamError
	switch {
	case errors.As(err, &upstream):
		response.FailUpstream(c, upstream.StatusCode, upstream.Body)
	case errors.Is(err, service.ErrMissingField):
		response.Fail(c, http.StatusBadRequest, response.ErrMissingField)
	case errors.Is(err, service.ErrInvalidToken):
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
	case errors.Is(err, repository.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
	case errors.Is(err, repository.ErrMultipleExams):
		response.Fail(c, http.StatusConflict, response.ErrMultipleExams)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// relayJSON writes a raw upstream payload without re-marshaling it.
func relayJSON(c *gin.Context, payload json.RawMessage) {
	c.Data(http.StatusOK, "application/json", payload)
}
