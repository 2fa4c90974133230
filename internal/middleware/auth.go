package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/epeers/dividendstocks/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// AdminKeyHeader carries the shared secret admin routes are guarded by
const AdminKeyHeader = "X-Admin-Key"

// RequireAdmin rejects requests whose X-Admin-Key header does not match key.
// An empty key disables the admin routes entirely.
func RequireAdmin(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Error:   "forbidden",
				Message: "admin routes are disabled: ADMIN_KEY is not configured",
			})
			return
		}

		given := c.GetHeader(AdminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			log.Warnf("rejected admin request %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "missing or invalid " + AdminKeyHeader,
			})
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request through logrus at info level
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.WithFields(log.Fields{
			"status": c.Writer.Status(),
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"ip":     c.ClientIP(),
		}).Info("request")
	}
}
