package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/saraswati/exam-gateway/internal/config"
	"github.com/saraswati/exam-gateway/internal/handler"
	"github.com/saraswati/exam-gateway/internal/middleware"
	"github.com/saraswati/exam-gateway/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Session  *handler.SessionHandler
	Question *handler.QuestionHandler
	Exam     *handler.ExamHandler
	User     *handler.UserHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// ─── Student-facing (token checked in the service layer) ───────
		api.POST("/login", handlers.Session.Login)
		api.POST("/question", handlers.Question.FetchQuestion)
		api.POST("/exam/reset", handlers.Session.Reset)
		api.POST("/ping", handlers.Session.Ping)

		// ─── Administrative (shared bearer credential) ─────────────────
		admin := api.Group("", middleware.RequireAdminToken(cfg))
		{
			admin.POST("/question/add", handlers.Question.AddQuestion)
			admin.POST("/answer/submit", handlers.Question.SubmitAnswer)
			admin.POST("/submit/feedback", handlers.Question.SubmitFeedback)
			admin.POST("/create_exam", handlers.Exam.CreateExam)
			admin.POST("/upload/users", handlers.User.UploadCSV)
			admin.GET("/export/users", handlers.User.ExportCSV)
		}
	}

	return router
}
