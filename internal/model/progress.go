package model

import "time"

// CourseProgress 学习进度，已完成的课时一行一条
// (user_id, course_id, lecture_id) 唯一，重复标记是幂等的
type CourseProgress struct {
	ID        uint   `gorm:"primarykey"`
	UserID    string `gorm:"size:64;index:idx_user_course_lecture,unique"`
	CourseID  uint   `gorm:"index:idx_user_course_lecture,unique"`
	LectureID string `gorm:"size:64;index:idx_user_course_lecture,unique"`
	CreatedAt time.Time
}
