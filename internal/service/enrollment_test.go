package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-market/internal/model"
	"course-market/internal/pkg/database"
)

func TestProjectIsIdempotent(t *testing.T) {
	setupTestDB(t)
	educator := seedUser(t, "edu-1")
	buyer := seedUser(t, "buyer-1")
	course := seedCourse(t, educator.ID, 100, 0)

	require.NoError(t, Enrollment.Project(database.DB, buyer.ID, course.ID))
	require.NoError(t, Enrollment.Project(database.DB, buyer.ID, course.ID))
	require.NoError(t, Enrollment.Project(database.DB, buyer.ID, course.ID))

	assert.Equal(t, int64(1), countEnrollments(t, buyer.ID, course.ID))
}

func TestIsEnrolledIgnoresPending(t *testing.T) {
	setupTestDB(t)
	gw := &fakeGateway{}
	useGateway(t, gw)
	educator := seedUser(t, "edu-1")
	buyer := seedUser(t, "buyer-1")
	course := seedCourse(t, educator.ID, 100, 0)

	order, err := Purchase.CreateGatewayOrder(buyer.ID, course.ID)
	require.NoError(t, err)

	// pending 不算已报名
	enrolled, err := Enrollment.IsEnrolled(buyer.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	_, err = Purchase.CaptureGatewayOrder(order.OrderID, order.PurchaseID)
	require.NoError(t, err)

	enrolled, err = Enrollment.IsEnrolled(buyer.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)
}

func TestEnrollmentLookups(t *testing.T) {
	setupTestDB(t)
	educator := seedUser(t, "edu-1")
	buyerA := seedUser(t, "buyer-a")
	buyerB := seedUser(t, "buyer-b")
	courseA := seedCourse(t, educator.ID, 100, 0)
	courseB := seedCourse(t, educator.ID, 50, 0)

	_, err := Purchase.CreateDirectPurchase(buyerA.ID, courseA.ID, "甲", "13800000001")
	require.NoError(t, err)
	_, err = Purchase.CreateDirectPurchase(buyerA.ID, courseB.ID, "甲", "13800000001")
	require.NoError(t, err)
	_, err = Purchase.CreateDirectPurchase(buyerB.ID, courseA.ID, "乙", "13800000002")
	require.NoError(t, err)

	// 用户 -> 课程
	courses, err := Enrollment.GetEnrolledCourses(buyerA.ID)
	require.NoError(t, err)
	assert.Len(t, courses, 2)

	// 课程 -> 学员
	students, err := Enrollment.GetEnrolledStudents(courseA.ID)
	require.NoError(t, err)
	require.Len(t, students, 2)
	ids := []string{students[0].ID, students[1].ID}
	assert.ElementsMatch(t, []string{buyerA.ID, buyerB.ID}, ids)

	var course model.Course
	require.NoError(t, database.DB.First(&course, courseB.ID).Error)
	students, err = Enrollment.GetEnrolledStudents(course.ID)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}
