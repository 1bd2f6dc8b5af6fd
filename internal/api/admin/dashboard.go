package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"course-market/internal/model"
	"course-market/internal/pkg/database"
)

// GetDashboard 运营概览
// 收入只统计 completed 的购买记录，pending 和 failed 不计入
func GetDashboard(c *gin.Context) {
	var totalUsers int64
	if err := database.DB.Model(&model.User{}).Count(&totalUsers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "获取用户总数失败",
		})
		return
	}

	var totalCourses int64
	if err := database.DB.Model(&model.Course{}).Count(&totalCourses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "获取课程总数失败",
		})
		return
	}

	var totalEnrollments int64
	if err := database.DB.Model(&model.Purchase{}).
		Where("status = ?", model.PurchaseStatusCompleted).
		Count(&totalEnrollments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "获取报名总数失败",
		})
		return
	}

	var totalRevenue float64
	if err := database.DB.Model(&model.Purchase{}).
		Where("status = ?", model.PurchaseStatusCompleted).
		Select("COALESCE(SUM(amount_paid), 0)").
		Scan(&totalRevenue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "获取收入合计失败",
		})
		return
	}

	// 最近完成的报名，概览页直接展示快照字段
	var latest []model.Purchase
	if err := database.DB.
		Where("status = ?", model.PurchaseStatusCompleted).
		Order("enrolled_at desc").
		Limit(10).
		Find(&latest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "获取最新报名记录失败",
		})
		return
	}

	latestEnrollments := make([]gin.H, 0, len(latest))
	for _, p := range latest {
		latestEnrollments = append(latestEnrollments, gin.H{
			"purchaseId":  p.ID,
			"courseTitle": p.CourseTitle,
			"buyerName":   p.BuyerName,
			"buyerEmail":  p.BuyerEmail,
			"amountPaid":  p.AmountPaid,
			"enrolledAt":  p.EnrolledAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{
			"totalUsers":        totalUsers,
			"totalCourses":      totalCourses,
			"totalEnrollments":  totalEnrollments,
			"totalRevenue":      totalRevenue,
			"latestEnrollments": latestEnrollments,
		},
	})
}
