package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tiffinbox/tiffin_go_server/internal/pkg/response"
	"github.com/tiffinbox/tiffin_go_server/internal/repository"
)

// AdminOnly 管理员校验中间件，必须在 Auth 之后使用
func AdminOnly(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		if user.Role != "admin" {
			response.PermissionError(c, "Not authorized as admin")
			c.Abort()
			return
		}

		c.Next()
	}
}
