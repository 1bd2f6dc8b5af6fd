package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"course-market/internal/config"
	"course-market/internal/model"
)

// DB 全局数据库连接
var DB *gorm.DB

// Setup 初始化数据库连接和迁移
func Setup() error {
	var err error

	// 获取配置
	cfg := config.GlobalConfig.Database

	// 构建DSN
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)

	// 连接数据库
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect database: %v", err)
	}

	return Migrate(DB)
}

// Migrate 自动迁移，测试环境也会复用
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.CourseRating{},
		&model.Purchase{},
		&model.Enrollment{},
		&model.CourseProgress{},
		&model.Review{},
		&model.Blog{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
