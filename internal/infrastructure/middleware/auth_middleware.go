package middleware

import (
	"net/http"
	"strings"

	"unitcom_server/pkg/errorx"
	"unitcom_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// Auth verifies the Bearer session token and stores the external auth id
// in the request context under "external_id".
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthenticated,
				"msg":  "not authenticated",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthenticated,
				"msg":  "malformed Authorization header, expected Bearer token",
			})
			return
		}

		externalId, err := jwt.ParseSessionToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthenticated,
				"msg":  "token expired or invalid",
			})
			return
		}

		c.Set("external_id", externalId)
		c.Next()
	}
}
