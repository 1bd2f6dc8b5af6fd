package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"course-market/internal/service"
)

// GetCourseList 上架课程列表，公开接口
func GetCourseList(c *gin.Context) {
	courses, err := service.Course.GetPublishedList()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": courses,
	})
}

// GetCourseDetail 课程详情，公开接口
// 带令牌访问时按是否已报名决定课时地址和资料的可见性
func GetCourseDetail(c *gin.Context) {
	courseId, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	viewerId := c.GetString("userId")
	detail, err := service.Course.GetDetail(uint(courseId), viewerId)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": detail,
	})
}

// AddCourseRating 用户给课程评分，重复评分覆盖上一次
func AddCourseRating(c *gin.Context) {
	var req struct {
		CourseID uint `json:"courseId" binding:"required"`
		Rating   int  `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	userId := c.GetString("userId")
	if err := service.Course.AddRating(userId, req.CourseID, req.Rating); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "评分成功",
	})
}

// IsEnrolled 当前用户是否已报名某课程
func IsEnrolled(c *gin.Context) {
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
	enrolled, err := service.Enrollment.IsEnrolled(userId, req.CourseID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{
			"enrolled": enrolled,
		},
	})
}

// GetEnrolledCourses 当前用户已报名的课程列表
func GetEnrolledCourses(c *gin.Context) {
	userId := c.GetString("userId")
	courses, err := service.Enrollment.GetEnrolledCourses(userId)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": courses,
	})
}
