package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saraswati/exam-gateway/internal/repository"
	"github.com/saraswati/exam-gateway/internal/response"
	"github.com/saraswati/exam-gateway/internal/service"
)

// UserHandler handles bulk user import and export.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UploadCSV godoc
// POST /api/upload/users (admin, multipart)
// Imports exam seats from a CSV file; usernames are prefix + university_id.
func (h *UserHandler) UploadCSV(c *gin.Context) {
	examPrefix := c.PostForm("exam_prefix")
	if examPrefix == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrMissingField)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	count, err := h.userService.ImportCSV(c.Request.Context(), file, examPrefix)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUser):
			response.Fail(c, http.StatusBadRequest, response.ErrDuplicateUsers)
		case errors.Is(err, service.ErrMissingField):
			response.Fail(c, http.StatusBadRequest, response.ErrMissingField)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"created": count})
}

// ExportCSV godoc
// GET /api/export/users (admin)
// Streams all users as CSV, ordered by marks descending.
func (h *UserHandler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="users.csv"`)

	if err := h.userService.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
}
