package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户模型
// ID 由外部身份服务下发，不在本地生成
type User struct {
	ID          string `gorm:"primarykey;size:64"`
	Name        string `gorm:"size:64"`
	Email       string `gorm:"size:128;uniqueIndex"`
	ImageURL    string `gorm:"size:255"` // 头像地址
	PhoneNumber string `gorm:"size:32"`
	Role        string `gorm:"size:16;default:user"` // user, admin
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// IsAdmin 是否是管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
