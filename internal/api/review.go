package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"course-market/internal/service"
)

// SubmitReview 提交平台评价，进入待审核队列
func SubmitReview(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
		Rating  int    `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	userId := c.GetString("userId")
	if err := service.Review.Submit(userId, req.Content, req.Rating); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "评价已提交，等待审核",
	})
}

// GetReviews 审核通过的评价列表，公开接口
func GetReviews(c *gin.Context) {
	reviews, err := service.Review.ListApproved()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": reviews,
	})
}
