package service

import (
	"gorm.io/gorm/clause"

	"course-market/internal/model"
	"course-market/internal/pkg/database"
)

var Progress = new(ProgressService)

// ProgressService 学习进度
// 只对已报名的用户开放，进度不影响台账和报名关系
type ProgressService struct{}

// MarkLectureComplete 标记课时完成，重复标记是空操作
func (s *ProgressService) MarkLectureComplete(userID string, courseID uint, lectureID string) error {
	if lectureID == "" {
		return ErrInvalidInput
	}

	enrolled, err := Enrollment.IsEnrolled(userID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrNotEnrolled
	}

	return database.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.CourseProgress{
			UserID:    userID,
			CourseID:  courseID,
			LectureID: lectureID,
		}).Error
}

// GetCompletedLectures 查询已完成的课时，按完成先后排序
func (s *ProgressService) GetCompletedLectures(userID string, courseID uint) ([]string, error) {
	enrolled, err := Enrollment.IsEnrolled(userID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	var records []model.CourseProgress
	if err := database.DB.
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("id asc").
		Find(&records).Error; err != nil {
		return nil, err
	}

	lectures := make([]string, 0, len(records))
	for _, record := range records {
		lectures = append(lectures, record.LectureID)
	}
	return lectures, nil
}
