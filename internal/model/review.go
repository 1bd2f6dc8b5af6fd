package model

import "time"

// Review 用户评价，提交后进入待审核状态，管理员审核通过才对外展示
// 提交人信息落快照，用户被删除后历史评价仍然完整
type Review struct {
	ID        uint   `gorm:"primarykey"`
	UserID    string `gorm:"size:64;index"`
	UserName  string `gorm:"size:64"`
	UserEmail string `gorm:"size:128"`
	UserImage string `gorm:"size:255"`
	Content   string `gorm:"type:text"`
	Rating    int    // 1-5
	Approved  bool   `gorm:"default:false;index"`
	CreatedAt time.Time
}
