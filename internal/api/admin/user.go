package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"course-market/internal/service"
)

// GetUsers 用户列表
func GetUsers(c *gin.Context) {
	users, err := service.User.List()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": users,
	})
}

// DeleteUser 删除用户
// 购买记录带快照，历史台账不受用户删除影响
func DeleteUser(c *gin.Context) {
	userId := c.Param("id")
	if userId == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	if err := service.User.Delete(userId); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "删除成功",
	})
}
