package service

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"course-market/internal/model"
	"course-market/internal/pkg/database"
)

var Enrollment = new(EnrollmentService)

// EnrollmentService 报名投影
// 只由 completed 的购买记录驱动，pending 和 failed 永远不会触发投影
type EnrollmentService struct{}

// Project 把一条 completed 购买投影到报名表
// 幂等：重复投影同一 (user, course) 是空操作
func (s *EnrollmentService) Project(tx *gorm.DB, userID string, courseID uint) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Enrollment{UserID: userID, CourseID: courseID}).Error
}

// IsEnrolled 用户是否已报名课程
// 只认投影表，pending 的购买记录不算已报名
func (s *EnrollmentService) IsEnrolled(userID string, courseID uint) (bool, error) {
	var count int64
	err := database.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// GetEnrolledCourses 用户已报名的课程列表
func (s *EnrollmentService) GetEnrolledCourses(userID string) ([]model.Course, error) {
	var courses []model.Course
	err := database.DB.
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", userID).
		Preload("Educator").
		Find(&courses).Error
	return courses, err
}

// GetEnrolledStudents 课程的学员列表，管理端用
func (s *EnrollmentService) GetEnrolledStudents(courseID uint) ([]model.User, error) {
	var users []model.User
	err := database.DB.
		Joins("JOIN enrollments ON enrollments.user_id = users.id").
		Where("enrollments.course_id = ?", courseID).
		Find(&users).Error
	return users, err
}
