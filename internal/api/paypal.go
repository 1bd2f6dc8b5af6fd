package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"course-market/internal/service"
)

// CreatePayPalOrder 网关购买第一步：创建支付订单
// 返回的 approvalUrl 由前端引导买家跳转确认支付
func CreatePayPalOrder(c *gin.Context) {
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
	order, err := service.Purchase.CreateGatewayOrder(userId, req.CourseID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": order,
	})
}

// CapturePayPalOrder 网关购买第二步：买家确认支付后扣款并完成报名
func CapturePayPalOrder(c *gin.Context) {
	orderId := c.Param("orderID")
	purchaseId, err := strconv.ParseUint(c.Param("purchaseId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	outcome, err := service.Purchase.CaptureGatewayOrder(orderId, uint(purchaseId))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "支付成功",
		"data": outcome,
	})
}
