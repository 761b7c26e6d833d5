package middleware

import (
	"net/http"
	"strings"

	"Micro_Blog/internal/pkg"
	"Micro_Blog/internal/repository/redis"
	"Micro_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

const ContextUserIDKey = "user_id"

func AuthMiddleware(sessions *redis.SessionRepository, users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			c.Abort()
			return
		}

		tokenStr := parts[1]
		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			c.Abort()
			return
		}

		// redis校验是否是正确的token
		originToken, err := sessions.GetUserToken(claims.UserID)
		if err != nil || originToken != tokenStr {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "account has been logged in elsewhere"})
			c.Abort()
			return
		}

		// 校验通过后更新过期时间
		if err = sessions.ExtendUserToken(claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		// 节流过的 last_seen 刷新，静态资源并发请求不会每次都写库
		users.TouchLastSeen(claims.UserID)

		// 注入 user_id
		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}
