package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"course-market/internal/model"
	"course-market/internal/service"
)

// SyncUser 同步外部身份服务下发的用户档案
// 前端拿到身份令牌后调用，重复调用刷新姓名、邮箱和头像
func SyncUser(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		ImageURL  string `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	userId := c.GetString("userId")
	user, err := service.User.CreateOrUpdate(userId, req.Email, req.FirstName, req.LastName, req.ImageURL)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": user,
	})
}

// GetUserData 当前用户档案
func GetUserData(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(*model.User)

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{
			"id":          currentUser.ID,
			"name":        currentUser.Name,
			"email":       currentUser.Email,
			"imageUrl":    currentUser.ImageURL,
			"phoneNumber": currentUser.PhoneNumber,
			"isAdmin":     currentUser.IsAdmin(),
			"createdAt":   currentUser.CreatedAt,
		},
	})
}
