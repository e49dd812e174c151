package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserHeader carries the caller identity set by the upstream identity layer.
const UserHeader = "X-User-ID"

const userKey = "inbox.user"

// RequireUser rejects requests without an identity header.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserHeader))
		if userID == "" {
			fail(c, http.StatusUnauthorized, &APIError{Code: ErrorUnauthorized, Message: "missing " + UserHeader + " header"})
			return
		}
		c.Set(userKey, userID)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(userKey)
}

// RequireMaintenanceToken rejects requests whose bearer token is not token.
func RequireMaintenanceToken(token string) gin.HandlerFunc {
	want := []byte(token)
	return func(c *gin.Context) {
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), want) != 1 {
			fail(c, http.StatusUnauthorized, &APIError{Code: ErrorUnauthorized, Message: "maintenance token required"})
			return
		}
		c.Next()
	}
}
