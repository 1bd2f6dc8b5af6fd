package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"course-market/internal/model"
	"course-market/internal/service"
)

// CreatePurchase 直接购买课程，成功即完成报名
func CreatePurchase(c *gin.Context) {
	var req struct {
		CourseID    uint   `json:"courseId" binding:"required"`
		Name        string `json:"name"`
		PhoneNumber string `json:"phoneNumber" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	userId := c.GetString("userId")
	purchaseId, err := service.Purchase.CreateDirectPurchase(userId, req.CourseID, req.Name, req.PhoneNumber)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "购买成功",
		"data": gin.H{
			"purchaseId": purchaseId,
		},
	})
}

// GetPurchases 购买记录列表
// 普通用户只能查自己的记录，管理员可以按任意条件过滤
func GetPurchases(c *gin.Context) {
	var query struct {
		CourseID  uint   `form:"courseId"`
		UserID    string `form:"userId"`
		Status    string `form:"status"`
		Page      int    `form:"page,default=1"`
		Limit     int    `form:"limit,default=10"`
		SortBy    string `form:"sortBy"`
		SortOrder string `form:"sortOrder"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	currentUser := c.MustGet("currentUser").(*model.User)
	if !currentUser.IsAdmin() {
		query.UserID = currentUser.ID
	}

	page, err := service.Purchase.GetList(service.PurchaseQuery{
		CourseID:  query.CourseID,
		UserID:    query.UserID,
		Status:    query.Status,
		Page:      query.Page,
		Limit:     query.Limit,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": page,
	})
}

// GetPurchaseDetail 单条购买记录，只能看自己的，管理员不受限
func GetPurchaseDetail(c *gin.Context) {
	purchaseId, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	purchase, err := service.Purchase.GetDetail(uint(purchaseId))
	if err != nil {
		fail(c, err)
		return
	}

	currentUser := c.MustGet("currentUser").(*model.User)
	if !currentUser.IsAdmin() && purchase.UserID != currentUser.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"code": 403,
			"msg":  "无权查看该购买记录",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": purchase,
	})
}
