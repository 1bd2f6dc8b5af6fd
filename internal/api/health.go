package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// SimpleHealthCheck 健康检查，用于 Docker 健康检查和负载均衡器
// 不查数据库，只说明进程活着
func SimpleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "course-market",
		"uptime":  time.Since(startedAt).Round(time.Second).String(),
	})
}
