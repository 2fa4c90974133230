package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/epeers/dividendstocks/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func adminRouter(key string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.POST("/admin/refresh", middleware.RequireAdmin(key), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireAdmin(t *testing.T) {
	testCases := []struct {
		name     string
		key      string
		header   string
		expected int
	}{
		{"valid key", "s3cret", "s3cret", http.StatusNoContent},
		{"wrong key", "s3cret", "guess", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"admin disabled", "", "", http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/refresh", nil)
			if tc.header != "" {
				req.Header.Set(middleware.AdminKeyHeader, tc.header)
			}
			w := httptest.NewRecorder()
			adminRouter(tc.key).ServeHTTP(w, req)

			assert.Equal(t, tc.expected, w.Code)
		})
	}
}
