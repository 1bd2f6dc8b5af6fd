package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"course-market/internal/service"
)

// fail 服务层错误统一出口
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrBlogNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{
		"code": status,
		"msg":  err.Error(),
	})
}
