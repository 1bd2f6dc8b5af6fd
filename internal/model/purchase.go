package model

import (
	"time"

	"gorm.io/gorm"
)

// 购买记录状态
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusFailed    = "failed"
)

// Purchase 购买记录，报名资格的唯一事实来源
// 课程和买家信息在下单时落快照，之后课程或用户被修改不影响历史记录
type Purchase struct {
	ID       uint   `gorm:"primarykey"`
	CourseID uint   `gorm:"index"`
	UserID   string `gorm:"size:64;index"`

	// 课程快照
	CourseTitle     string `gorm:"size:128"`
	CourseThumbnail string `gorm:"size:255"`
	EducatorID      string `gorm:"size:64"`
	EducatorName    string `gorm:"size:64"`
	CoursePrice     float64
	CourseDiscount  int

	// 买家快照
	BuyerName  string `gorm:"size:64"`
	BuyerEmail string `gorm:"size:128"`
	BuyerImage string `gorm:"size:255"`
	BuyerPhone string `gorm:"size:32"`

	AmountPaid float64 // 实付金额，两位小数
	Status     string  `gorm:"size:20;index"` // pending, completed, failed

	// 支付网关标识
	PayPalOrderID   string `gorm:"column:paypal_order_id;size:64;index"`
	PayPalCaptureID string `gorm:"column:paypal_capture_id;size:64"`
	CaptureDetail   string `gorm:"type:json"` // 网关返回的原始捕获数据

	EnrolledAt *time.Time // 完成支付前为 NULL
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

// IsStale pending 状态超过给定时长视为已放弃
func (p *Purchase) IsStale(ttl time.Duration) bool {
	return p.Status == PurchaseStatusPending && time.Since(p.CreatedAt) > ttl
}
