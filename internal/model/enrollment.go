package model

import "time"

// Enrollment 报名投影，由 completed 的购买记录派生
// (user_id, course_id) 唯一，重复投影是幂等的
// 同一张表同时服务 用户->课程 和 课程->学员 两个方向的查询
type Enrollment struct {
	ID        uint   `gorm:"primarykey"`
	UserID    string `gorm:"size:64;index:idx_user_course,unique"`
	CourseID  uint   `gorm:"index:idx_user_course,unique"`
	CreatedAt time.Time
}
