package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"course-market/internal/model"
	"course-market/internal/pkg/database"
)

// AdminAuth 管理员认证中间件，必须在 JWT 中间件之后使用
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// JWT中间件已经验证过token并设置了userId
		userID, exists := c.Get("userId")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": 401,
				"msg":  "未登录",
			})
			c.Abort()
			return
		}

		// 查询用户
		var user model.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": 401,
				"msg":  "用户不存在或已被删除",
			})
			c.Abort()
			return
		}

		// 验证是否是管理员
		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"code": 403,
				"msg":  "无管理员权限",
			})
			c.Abort()
			return
		}

		c.Set("adminUser", user)
		c.Next()
	}
}
