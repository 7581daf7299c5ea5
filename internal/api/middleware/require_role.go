package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hirestack/hirestack/internal/utils"
)

// RequireRole lets the request through when the caller holds at least one of
// the allowed role tags.
func RequireRole(allowed ...string) gin.HandlerFunc {
	allow := map[string]struct{}{}
	for _, a := range allowed {
		a = strings.TrimSpace(strings.ToLower(a))
		if a != "" {
			allow[a] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		v, _ := c.Get("roles")
		roles, _ := v.([]string)

		for _, r := range roles {
			if _, ok := allow[strings.ToLower(strings.TrimSpace(r))]; ok {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":    utils.CodeForbidden,
			"message": "forbidden",
		})
	}
}
