package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-market/internal/model"
	"course-market/internal/pkg/database"
)

func TestCourseDetailLocksLectures(t *testing.T) {
	setupTestDB(t)
	educator := seedUser(t, "edu-1")
	buyer := seedUser(t, "buyer-1")
	stranger := seedUser(t, "stranger-1")
	course := seedCourse(t, educator.ID, 100, 0)
	require.NoError(t, database.DB.Model(&model.Course{}).
		Where("id = ?", course.ID).
		Update("pdf_url", "/uploads/pdfs/course-1.pdf").Error)

	_, err := Purchase.CreateDirectPurchase(buyer.ID, course.ID, "张三", "13800138000")
	require.NoError(t, err)

	// 未报名：试看课时保留地址，其余课时地址清空，没有资料链接
	detail, err := Course.GetDetail(course.ID, stranger.ID)
	require.NoError(t, err)
	chapters := detail["courseContent"].([]model.Chapter)
	require.Len(t, chapters, 1)
	assert.Equal(t, "https://video.example.com/1", chapters[0].ChapterContent[0].LectureURL)
	assert.Empty(t, chapters[0].ChapterContent[1].LectureURL)
	_, hasPdf := detail["pdfUrl"]
	assert.False(t, hasPdf)

	// 匿名访问者同样被锁
	detail, err = Course.GetDetail(course.ID, "")
	require.NoError(t, err)
	chapters = detail["courseContent"].([]model.Chapter)
	assert.Empty(t, chapters[0].ChapterContent[1].LectureURL)

	// 已报名：全部课时地址和资料链接可见
	detail, err = Course.GetDetail(course.ID, buyer.ID)
	require.NoError(t, err)
	chapters = detail["courseContent"].([]model.Chapter)
	assert.Equal(t, "https://video.example.com/2", chapters[0].ChapterContent[1].LectureURL)
	assert.Equal(t, "/uploads/pdfs/course-1.pdf", detail["pdfUrl"])

	// 讲师本人不受限
	detail, err = Course.GetDetail(course.ID, educator.ID)
	require.NoError(t, err)
	chapters = detail["courseContent"].([]model.Chapter)
	assert.Equal(t, "https://video.example.com/2", chapters[0].ChapterContent[1].LectureURL)
}

func TestUnpublishedCourseHidden(t *testing.T) {
	setupTestDB(t)
	educator := seedUser(t, "edu-1")
	stranger := seedUser(t, "stranger-1")
	course := seedCourse(t, educator.ID, 100, 0)
	require.NoError(t, database.DB.Model(&model.Course{}).
		Where("id = ?", course.ID).
		Update("is_published", false).Error)

	// 下架课程对外不可见，只有讲师本人能看到
	_, err := Course.GetDetail(course.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = Course.GetDetail(course.ID, educator.ID)
	require.NoError(t, err)

	list, err := Course.GetPublishedList()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCourseCreateFillsIDs(t *testing.T) {
	setupTestDB(t)
	educator := seedUser(t, "edu-1")

	courseId, err := Course.Create(CreateCourseInput{
		Title:      "新课程",
		Price:      88,
		Discount:   10,
		EducatorID: educator.ID,
		Chapters: []model.Chapter{
			{
				ChapterTitle: "第一章",
				ChapterContent: []model.Lecture{
					{LectureTitle: "第一节"},
				},
			},
		},
	})
	require.NoError(t, err)

	var course model.Course
	require.NoError(t, database.DB.First(&course, courseId).Error)
	chapters, err := course.GetContent()
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.NotEmpty(t, chapters[0].ChapterID)
	assert.NotEmpty(t, chapters[0].ChapterContent[0].LectureID)
}

func TestCourseCreateValidation(t *testing.T) {
	setupTestDB(t)
	educator := seedUser(t, "edu-1")

	_, err := Course.Create(CreateCourseInput{Title: "", Price: 10, EducatorID: educator.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Course.Create(CreateCourseInput{Title: "负价", Price: -1, EducatorID: educator.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Course.Create(CreateCourseInput{Title: "折扣越界", Price: 10, Discount: 101, EducatorID: educator.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Course.Create(CreateCourseInput{Title: "讲师不存在", Price: 10, EducatorID: "ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddRatingUpserts(t *testing.T) {
	setupTestDB(t)
	educator := seedUser(t, "edu-1")
	user := seedUser(t, "user-1")
	course := seedCourse(t, educator.ID, 100, 0)

	require.NoError(t, Course.AddRating(user.ID, course.ID, 4))
	// 重复评分覆盖上一次，不新增记录
	require.NoError(t, Course.AddRating(user.ID, course.ID, 5))

	var ratings []model.CourseRating
	require.NoError(t, database.DB.Where("course_id = ?", course.ID).Find(&ratings).Error)
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].Rating)

	assert.ErrorIs(t, Course.AddRating(user.ID, course.ID, 0), ErrInvalidInput)
	assert.ErrorIs(t, Course.AddRating(user.ID, 999, 3), ErrCourseNotFound)
}
