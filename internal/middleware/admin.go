package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/saraswati/exam-gateway/internal/config"
	"github.com/saraswati/exam-gateway/internal/response"
)

// RequireAdminToken guards administrative routes with the static bearer
// credential shared with the question-bank service. An empty configured
// token locks the routes entirely rather than leaving them open.
func RequireAdminToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		presented, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || cfg.AdminToken == "" ||
			subtle.ConstantTimeCompare([]byte(presented), []byte(cfg.AdminToken)) != 1 {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrAdminTokenRequired)
			return
		}
		c.Next()
	}
}
