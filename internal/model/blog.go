package model

import (
	"time"

	"gorm.io/gorm"
)

// Blog 博客文章
type Blog struct {
	ID        uint   `gorm:"primarykey"`
	Title     string `gorm:"size:128"`
	Content   string `gorm:"type:text"`
	ImageURL  string `gorm:"size:255"`
	Category  string `gorm:"size:50"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
