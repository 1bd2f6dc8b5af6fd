package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressRequiresEnrollment(t *testing.T) {
	setupTestDB(t)
	educator := seedUser(t, "edu-1")
	user := seedUser(t, "user-1")
	course := seedCourse(t, educator.ID, 100, 0)

	// 未报名不能写进度，也查不到进度
	err := Progress.MarkLectureComplete(user.ID, course.ID, "lec-1")
	assert.ErrorIs(t, err, ErrNotEnrolled)

	_, err = Progress.GetCompletedLectures(user.ID, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestMarkLectureCompleteIdempotent(t *testing.T) {
	setupTestDB(t)
	educator := seedUser(t, "edu-1")
	buyer := seedUser(t, "buyer-1")
	course := seedCourse(t, educator.ID, 100, 0)

	_, err := Purchase.CreateDirectPurchase(buyer.ID, course.ID, "张三", "13800138000")
	require.NoError(t, err)

	require.NoError(t, Progress.MarkLectureComplete(buyer.ID, course.ID, "lec-1"))
	// 重复标记同一课时是空操作
	require.NoError(t, Progress.MarkLectureComplete(buyer.ID, course.ID, "lec-1"))
	require.NoError(t, Progress.MarkLectureComplete(buyer.ID, course.ID, "lec-2"))

	lectures, err := Progress.GetCompletedLectures(buyer.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"lec-1", "lec-2"}, lectures)
}

func TestMarkLectureCompleteValidation(t *testing.T) {
	setupTestDB(t)
	educator := seedUser(t, "edu-1")
	buyer := seedUser(t, "buyer-1")
	course := seedCourse(t, educator.ID, 100, 0)

	_, err := Purchase.CreateDirectPurchase(buyer.ID, course.ID, "张三", "13800138000")
	require.NoError(t, err)

	assert.ErrorIs(t, Progress.MarkLectureComplete(buyer.ID, course.ID, ""), ErrInvalidInput)

	lectures, err := Progress.GetCompletedLectures(buyer.ID, course.ID)
	require.NoError(t, err)
	assert.Empty(t, lectures)
}
