package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"course-market/internal/model"
	"course-market/internal/pkg/database"
	"course-market/internal/pkg/payment"
)

// setupTestDB 每个测试用独立的内存数据库
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		database.DB = nil
	})
}

// fakeGateway 支付网关测试桩
// onCapture 在扣款调用内执行，用来模拟扣款期间发生的并发动作
type fakeGateway struct {
	createErr    error
	captureErr   error
	createCalls  int
	captureCalls int
	lastParams   payment.CreateOrderParams
	onCapture    func()
}

func (f *fakeGateway) CreateOrder(params payment.CreateOrderParams) (*payment.OrderResult, error) {
	f.createCalls++
	f.lastParams = params
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &payment.OrderResult{
		OrderID:     fmt.Sprintf("ORDER-%d", f.createCalls),
		Status:      "CREATED",
		ApprovalURL: "https://www.sandbox.paypal.com/checkoutnow?token=TEST",
	}, nil
}

func (f *fakeGateway) CaptureOrder(orderID string) (*payment.CaptureResult, error) {
	f.captureCalls++
	if f.onCapture != nil {
		f.onCapture()
	}
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	raw, _ := json.Marshal(map[string]string{"id": orderID, "status": "COMPLETED"})
	return &payment.CaptureResult{
		CaptureID: "CAPTURE-" + orderID,
		Status:    "COMPLETED",
		Raw:       raw,
	}, nil
}

// useGateway 注入测试桩，测试结束后还原
func useGateway(t *testing.T, gw PaymentGateway) {
	t.Helper()
	old := Gateway
	Gateway = gw
	t.Cleanup(func() { Gateway = old })
}

func seedUser(t *testing.T, id string) *model.User {
	t.Helper()
	user := &model.User{
		ID:       id,
		Name:     "测试用户" + id,
		Email:    id + "@example.com",
		ImageURL: "https://example.com/avatar.png",
		Role:     model.RoleUser,
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func seedCourse(t *testing.T, educatorID string, price float64, discount int) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:       "Go 实战课程",
		Description: "从零到上线",
		Category:    "编程",
		Price:       price,
		Discount:    discount,
		IsPublished: true,
		EducatorID:  educatorID,
	}
	require.NoError(t, course.SetContent([]model.Chapter{
		{
			ChapterID:    "ch-1",
			ChapterOrder: 1,
			ChapterTitle: "入门",
			ChapterContent: []model.Lecture{
				{LectureID: "lec-1", LectureTitle: "环境搭建", LectureURL: "https://video.example.com/1", IsPreviewFree: true, LectureOrder: 1},
				{LectureID: "lec-2", LectureTitle: "第一个服务", LectureURL: "https://video.example.com/2", LectureOrder: 2},
			},
		},
	}))
	require.NoError(t, database.DB.Create(course).Error)
	return course
}

func countEnrollments(t *testing.T, userID string, courseID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, database.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error)
	return count
}

var errGatewayDown = errors.New("网关不可用")
