package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"course-market/internal/service"
)

// GetAllReviews 全部评价列表，含待审核
func GetAllReviews(c *gin.Context) {
	reviews, err := service.Review.ListAll()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": reviews,
	})
}

// ApproveReview 审核通过评价，通过后对外可见
func ApproveReview(c *gin.Context) {
	reviewId, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	review, err := service.Review.Approve(uint(reviewId))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "审核通过",
		"data": review,
	})
}

// DeleteReview 删除评价
func DeleteReview(c *gin.Context) {
	reviewId, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	if err := service.Review.Delete(uint(reviewId)); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "删除成功",
	})
}
