package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"course-market/internal/config"
	"course-market/internal/middleware"
	"course-market/internal/model"
	"course-market/internal/pkg/database"
	"course-market/internal/pkg/payment"
	"course-market/internal/router"
	"course-market/internal/service"
)

// setupServer 内存数据库加完整路由
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.GlobalConfig = &config.Config{}
	config.GlobalConfig.JWT.Secret = "test-secret"
	config.GlobalConfig.JWT.ExpireTime = 3600
	config.GlobalConfig.Purchase.PendingTTLMinutes = 60
	t.Cleanup(func() { config.GlobalConfig = nil })

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

	r := gin.New()
	router.SetupRoutes(r)
	return r
}

type stubGateway struct {
	orders int
}

func (s *stubGateway) CreateOrder(params payment.CreateOrderParams) (*payment.OrderResult, error) {
	s.orders++
	return &payment.OrderResult{
		OrderID:     fmt.Sprintf("ORDER-%d", s.orders),
		Status:      "CREATED",
		ApprovalURL: "https://www.sandbox.paypal.com/checkoutnow?token=TEST",
	}, nil
}

func (s *stubGateway) CaptureOrder(orderID string) (*payment.CaptureResult, error) {
	return &payment.CaptureResult{
		CaptureID: "CAPTURE-" + orderID,
		Status:    "COMPLETED",
		Raw:       json.RawMessage(`{"status":"COMPLETED"}`),
	}, nil
}

func seedUser(t *testing.T, id, role string) (*model.User, string) {
	t.Helper()
	user := &model.User{
		ID:       id,
		Name:     "用户" + id,
		Email:    id + "@example.com",
		ImageURL: "https://example.com/avatar.png",
		Role:     role,
	}
	require.NoError(t, database.DB.Create(user).Error)

	token, err := middleware.GenerateToken(id)
	require.NoError(t, err)
	return user, token
}

func seedCourse(t *testing.T, educatorID string, price float64, discount int) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:       "Go 实战课程",
		Price:       price,
		Discount:    discount,
		IsPublished: true,
		EducatorID:  educatorID,
	}
	require.NoError(t, database.DB.Create(course).Error)
	return course
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestPurchaseEndpoints(t *testing.T) {
	r := setupServer(t)
	educator, _ := seedUser(t, "edu-1", model.RoleAdmin)
	_, buyerToken := seedUser(t, "buyer-1", model.RoleUser)
	course := seedCourse(t, educator.ID, 100, 25)

	t.Run("未登录被拒绝", func(t *testing.T) {
		rr := doJSON(r, http.MethodPost, "/api/user/purchase", "", gin.H{
			"courseId":    course.ID,
			"phoneNumber": "13800138000",
		})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("缺少手机号返回400", func(t *testing.T) {
		rr := doJSON(r, http.MethodPost, "/api/user/purchase", buyerToken, gin.H{
			"courseId": course.ID,
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("购买成功", func(t *testing.T) {
		rr := doJSON(r, http.MethodPost, "/api/user/purchase", buyerToken, gin.H{
			"courseId":    course.ID,
			"name":        "张三",
			"phoneNumber": "13800138000",
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp struct {
			Data struct {
				PurchaseID uint `json:"purchaseId"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotZero(t, resp.Data.PurchaseID)
	})

	t.Run("重复购买返回409", func(t *testing.T) {
		rr := doJSON(r, http.MethodPost, "/api/user/purchase", buyerToken, gin.H{
			"courseId":    course.ID,
			"phoneNumber": "13800138000",
		})
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("已报名查询", func(t *testing.T) {
		rr := doJSON(r, http.MethodPost, "/api/user/is-enrolled", buyerToken, gin.H{
			"courseId": course.ID,
		})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"enrolled":true`)
	})
}

func TestPayPalEndpoints(t *testing.T) {
	r := setupServer(t)
	gw := &stubGateway{}
	oldGateway := service.Gateway
	service.Gateway = gw
	t.Cleanup(func() { service.Gateway = oldGateway })

	educator, _ := seedUser(t, "edu-1", model.RoleAdmin)
	_, buyerToken := seedUser(t, "buyer-1", model.RoleUser)
	course := seedCourse(t, educator.ID, 200, 50)

	rr := doJSON(r, http.MethodPost, "/api/user/paypal/create-order", buyerToken, gin.H{
		"courseId": course.ID,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var createResp struct {
		Data struct {
			PurchaseID  uint   `json:"purchaseId"`
			OrderID     string `json:"paypalOrderId"`
			ApprovalURL string `json:"approvalUrl"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &createResp))
	assert.NotEmpty(t, createResp.Data.ApprovalURL)

	capturePath := fmt.Sprintf("/api/user/paypal/capture-order/%s/%d",
		createResp.Data.OrderID, createResp.Data.PurchaseID)
	rr = doJSON(r, http.MethodPost, capturePath, buyerToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// 扣款后报名关系生效
	rr = doJSON(r, http.MethodPost, "/api/user/is-enrolled", buyerToken, gin.H{
		"courseId": course.ID,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"enrolled":true`)

	// 重复扣款返回400
	rr = doJSON(r, http.MethodPost, capturePath, buyerToken, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReviewEndpoints(t *testing.T) {
	r := setupServer(t)
	_, adminToken := seedUser(t, "admin-1", model.RoleAdmin)
	_, userToken := seedUser(t, "user-1", model.RoleUser)

	rr := doJSON(r, http.MethodPost, "/api/user/reviews", userToken, gin.H{
		"content": "平台体验不错",
		"rating":  5,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// 审核前公开列表为空
	rr = doJSON(r, http.MethodGet, "/api/user/reviews", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "平台体验不错")

	// 普通用户进不了审核队列
	rr = doJSON(r, http.MethodGet, "/api/user/admin/reviews", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(r, http.MethodGet, "/api/user/admin/reviews", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var listResp struct {
		Data []model.Review `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResp))
	require.Len(t, listResp.Data, 1)

	approvePath := fmt.Sprintf("/api/user/admin/reviews/approve/%d", listResp.Data[0].ID)
	rr = doJSON(r, http.MethodPut, approvePath, adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// 审核通过后对外可见
	rr = doJSON(r, http.MethodGet, "/api/user/reviews", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "平台体验不错")
}

func TestCoursePublicEndpoints(t *testing.T) {
	r := setupServer(t)
	educator, _ := seedUser(t, "edu-1", model.RoleAdmin)
	course := seedCourse(t, educator.ID, 100, 0)

	rr := doJSON(r, http.MethodGet, "/api/course/all", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), course.Title)

	rr = doJSON(r, http.MethodGet, fmt.Sprintf("/api/course/%d", course.ID), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(r, http.MethodGet, "/api/course/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthEndpoint(t *testing.T) {
	r := setupServer(t)
	rr := doJSON(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
