package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"labsheet/internal/pkg/jwtutil"
	"labsheet/internal/transport/http/response"
)

const ContextWorkspaceIDKey = "workspace_id"

// AuthWorkspace resolves the bearer token to the caller's workspace id.
func AuthWorkspace(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, 401, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, 401, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextWorkspaceIDKey, claims.WorkspaceID)
		c.Next()
	}
}

func WorkspaceID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextWorkspaceIDKey)
	return id, id != ""
}
