package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"course-market/internal/service"
)

// UpdateCourseProgress 标记课时完成
func UpdateCourseProgress(c *gin.Context) {
	var req struct {
		CourseID  uint   `json:"courseId" binding:"required"`
		LectureID string `json:"lectureId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	userId := c.GetString("userId")
	if err := service.Progress.MarkLectureComplete(userId, req.CourseID, req.LectureID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "进度已更新",
	})
}

// GetCourseProgress 查询课程学习进度
func GetCourseProgress(c *gin.Context) {
	var req struct {
		CourseID uint `json:"courseId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	userId := c.GetString("userId")
	lectures, err := service.Progress.GetCompletedLectures(userId, req.CourseID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{
			"courseId":         req.CourseID,
			"lectureCompleted": lectures,
		},
	})
}
