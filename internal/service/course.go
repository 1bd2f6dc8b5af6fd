package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"course-market/internal/model"
	"course-market/internal/pkg/database"
)

var Course = new(CourseService)

type CourseService struct{}

// CreateCourseInput 创建课程参数
type CreateCourseInput struct {
	Title       string
	Description string
	Thumbnail   string
	Category    string
	Price       float64
	Discount    int
	EducatorID  string
	IsPublished *bool
	Chapters    []model.Chapter
}

// UpdateCourseInput 更新课程参数，nil 字段不修改
type UpdateCourseInput struct {
	Title       *string
	Description *string
	Category    *string
	Price       *float64
	Discount    *int
	IsPublished *bool
}

// GetPublishedList 上架课程列表，不带章节内容
func (s *CourseService) GetPublishedList() ([]map[string]interface{}, error) {
	var courses []model.Course
	err := database.DB.Where("is_published = ?", true).
		Preload("Educator").
		Order("created_at desc").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}

	result := make([]map[string]interface{}, 0, len(courses))
	for _, course := range courses {
		item := s.courseSummary(&course)
		result = append(result, item)
	}
	return result, nil
}

// GetDetail 课程详情
// 未报名的访问者看不到非试看课时的播放地址和课程资料
func (s *CourseService) GetDetail(courseID uint, viewerID string) (map[string]interface{}, error) {
	var course model.Course
	if err := database.DB.Preload("Educator").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	// 下架课程只有讲师本人可见
	if !course.IsPublished && viewerID != course.EducatorID {
		return nil, ErrCourseNotFound
	}

	unlocked := viewerID == course.EducatorID
	if !unlocked && viewerID != "" {
		enrolled, err := Enrollment.IsEnrolled(viewerID, courseID)
		if err != nil {
			return nil, err
		}
		unlocked = enrolled
	}

	chapters, err := course.GetContent()
	if err != nil {
		return nil, err
	}
	if !unlocked {
		for ci := range chapters {
			for li := range chapters[ci].ChapterContent {
				if !chapters[ci].ChapterContent[li].IsPreviewFree {
					chapters[ci].ChapterContent[li].LectureURL = ""
				}
			}
		}
	}

	detail := s.courseSummary(&course)
	detail["courseContent"] = chapters
	if unlocked {
		detail["pdfUrl"] = course.PdfURL
	}

	var ratings []model.CourseRating
	if err := database.DB.Where("course_id = ?", courseID).Find(&ratings).Error; err != nil {
		return nil, err
	}
	detail["courseRatings"] = ratings

	return detail, nil
}

// Create 创建课程，章节和课时没有ID时自动生成
func (s *CourseService) Create(input CreateCourseInput) (uint, error) {
	if input.Title == "" || input.Price < 0 || input.Discount < 0 || input.Discount > 100 {
		return 0, ErrInvalidInput
	}

	var educator model.User
	if err := database.DB.First(&educator, "id = ?", input.EducatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	for ci := range input.Chapters {
		if input.Chapters[ci].ChapterID == "" {
			input.Chapters[ci].ChapterID = uuid.NewString()
		}
		for li := range input.Chapters[ci].ChapterContent {
			if input.Chapters[ci].ChapterContent[li].LectureID == "" {
				input.Chapters[ci].ChapterContent[li].LectureID = uuid.NewString()
			}
		}
	}

	published := true
	if input.IsPublished != nil {
		published = *input.IsPublished
	}

	course := &model.Course{
		Title:       input.Title,
		Description: input.Description,
		Thumbnail:   input.Thumbnail,
		Category:    input.Category,
		Price:       input.Price,
		Discount:    input.Discount,
		IsPublished: published,
		EducatorID:  input.EducatorID,
	}
	if err := course.SetContent(input.Chapters); err != nil {
		return 0, err
	}
	if err := database.DB.Create(course).Error; err != nil {
		return 0, err
	}
	return course.ID, nil
}

// Update 部分更新课程
func (s *CourseService) Update(courseID uint, input UpdateCourseInput) error {
	var course model.Course
	if err := database.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		if *input.Title == "" {
			return ErrInvalidInput
		}
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return ErrInvalidInput
		}
		updates["price"] = *input.Price
	}
	if input.Discount != nil {
		if *input.Discount < 0 || *input.Discount > 100 {
			return ErrInvalidInput
		}
		updates["discount"] = *input.Discount
	}
	if input.IsPublished != nil {
		updates["is_published"] = *input.IsPublished
	}
	if len(updates) == 0 {
		return nil
	}
	return database.DB.Model(&course).Updates(updates).Error
}

// Delete 删除课程
// 已有的购买记录带快照，不受课程删除影响
func (s *CourseService) Delete(courseID uint) error {
	result := database.DB.Delete(&model.Course{}, courseID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// AttachPdf 绑定课程资料PDF
func (s *CourseService) AttachPdf(courseID uint, pdfURL string) error {
	result := database.DB.Model(&model.Course{}).
		Where("id = ?", courseID).
		Update("pdf_url", pdfURL)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// AddRating 用户评分，重复评分覆盖上一次
func (s *CourseService) AddRating(userID string, courseID uint, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidInput
	}

	var course model.Course
	if err := database.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	return database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(&model.CourseRating{
		CourseID: courseID,
		UserID:   userID,
		Rating:   rating,
	}).Error
}

// courseSummary 课程概要，列表和详情共用
func (s *CourseService) courseSummary(course *model.Course) map[string]interface{} {
	var enrolledCount int64
	database.DB.Model(&model.Enrollment{}).
		Where("course_id = ?", course.ID).
		Count(&enrolledCount)

	var ratingCount int64
	var ratingAvg float64
	database.DB.Model(&model.CourseRating{}).
		Where("course_id = ?", course.ID).
		Count(&ratingCount)
	if ratingCount > 0 {
		database.DB.Model(&model.CourseRating{}).
			Where("course_id = ?", course.ID).
			Select("AVG(rating)").
			Scan(&ratingAvg)
	}

	return map[string]interface{}{
		"id":             course.ID,
		"title":          course.Title,
		"description":    course.Description,
		"thumbnail":      course.Thumbnail,
		"category":       course.Category,
		"price":          course.Price,
		"discount":       course.Discount,
		"effectivePrice": course.EffectivePrice(),
		"isPublished":    course.IsPublished,
		"educator": map[string]interface{}{
			"id":       course.EducatorID,
			"name":     course.Educator.Name,
			"imageUrl": course.Educator.ImageURL,
		},
		"rating":        ratingAvg,
		"ratingCount":   ratingCount,
		"enrolledCount": enrolledCount,
		"createdAt":     course.CreatedAt,
	}
}
