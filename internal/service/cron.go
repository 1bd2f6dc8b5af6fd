package service

import (
	"time"

	"course-market/internal/model"
	"course-market/internal/pkg/database"
	"course-market/internal/pkg/logger"
)

// CronService 定时任务服务
type CronService struct {
	stopChan chan struct{}
}

var Cron = &CronService{
	stopChan: make(chan struct{}),
}

// Start 启动定时任务
func (s *CronService) Start() {
	go s.sweepStalePurchases()
}

// Stop 停止定时任务
func (s *CronService) Stop() {
	close(s.stopChan)
}

// sweepStalePurchases 周期性清理超时未支付的购买记录
func (s *CronService) sweepStalePurchases() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce()
		case <-s.stopChan:
			return
		}
	}
}

// SweepOnce 把超过有效期仍是 pending 的购买记录置为 failed
// failed 是终态，买家要重新走下单流程
func (s *CronService) SweepOnce() {
	cutoff := time.Now().Add(-pendingTTL())

	result := database.DB.Model(&model.Purchase{}).
		Where("status = ? AND created_at <= ?", model.PurchaseStatusPending, cutoff).
		Update("status", model.PurchaseStatusFailed)
	if result.Error != nil {
		logger.Errorf("清理超时购买记录失败: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		logger.Infof("已将 %d 条超时未支付的购买记录标记为 failed", result.RowsAffected)
	}
}
