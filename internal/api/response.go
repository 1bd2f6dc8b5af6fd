package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"course-market/internal/pkg/payment"
	"course-market/internal/service"
)

// errorStatus 服务层哨兵错误到HTTP状态码的映射
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrAlreadyEnrolled):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotEnrolled):
		return http.StatusForbidden
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPurchaseNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrBlogNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrOrderMismatch),
		errors.Is(err, service.ErrPurchaseClosed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	status := errorStatus(err)
	payload := gin.H{
		"code": status,
		"msg":  err.Error(),
	}

	// 网关侧错误带上 debug_id，方便对着 PayPal 后台排查
	var gatewayErr *payment.Error
	if errors.As(err, &gatewayErr) && gatewayErr.DebugID != "" {
		payload["debugId"] = gatewayErr.DebugID
	}

	c.JSON(status, payload)
}
