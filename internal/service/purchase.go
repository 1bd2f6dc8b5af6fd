package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"course-market/internal/config"
	"course-market/internal/model"
	"course-market/internal/pkg/database"
	"course-market/internal/pkg/logger"
	"course-market/internal/pkg/mailer"
	"course-market/internal/pkg/payment"
)

// 哨兵错误，handler层据此映射HTTP状态码
var (
	ErrAlreadyEnrolled  = errors.New("已购买该课程")
	ErrNotEnrolled      = errors.New("尚未报名该课程")
	ErrCourseNotFound   = errors.New("课程不存在")
	ErrUserNotFound     = errors.New("用户不存在")
	ErrPurchaseNotFound = errors.New("购买记录不存在")
	ErrPurchaseClosed   = errors.New("购买记录已结束，不能重复支付")
	ErrOrderMismatch    = errors.New("订单号与购买记录不匹配")
	ErrInvalidInput     = errors.New("参数错误")
)

// PaymentGateway 支付网关抽象，生产环境是PayPal客户端，测试用桩实现
type PaymentGateway interface {
	CreateOrder(params payment.CreateOrderParams) (*payment.OrderResult, error)
	CaptureOrder(orderID string) (*payment.CaptureResult, error)
}

// Gateway 全局网关实例，启动时注入
var Gateway PaymentGateway

var Purchase = new(PurchaseService)

// PurchaseService 购买台账
// 直接购买和网关购买两条路径共用同一套金额计算、重复购买检查和快照逻辑
type PurchaseService struct{}

// GatewayOrder 网关下单结果
type GatewayOrder struct {
	PurchaseID  uint   `json:"purchaseId"`
	OrderID     string `json:"paypalOrderId"`
	ApprovalURL string `json:"approvalUrl"`
}

// CaptureOutcome 扣款结果
type CaptureOutcome struct {
	PurchaseID uint   `json:"purchaseId"`
	CaptureID  string `json:"captureId"`
	Status     string `json:"status"`
}

// CreateDirectPurchase 直接购买，写入 completed 记录并同步投影报名关系
func (s *PurchaseService) CreateDirectPurchase(userID string, courseID uint, buyerName, buyerPhone string) (uint, error) {
	if buyerPhone == "" {
		return 0, ErrInvalidInput
	}

	var purchase *model.Purchase
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		user, course, err := s.loadParties(tx, userID, courseID)
		if err != nil {
			return err
		}
		if err := s.guardNotEnrolled(tx, userID, courseID); err != nil {
			return err
		}

		name := buyerName
		if name == "" {
			name = user.Name
		}

		now := time.Now()
		purchase = s.newSnapshot(course, user, name, buyerPhone)
		purchase.Status = model.PurchaseStatusCompleted
		purchase.EnrolledAt = &now

		if err := tx.Create(purchase).Error; err != nil {
			return err
		}
		// 台账和投影同一个事务落库，读到 completed 就一定能查到报名关系
		return Enrollment.Project(tx, userID, courseID)
	})
	if err != nil {
		return 0, err
	}

	s.sendEnrollmentEmail(purchase)
	return purchase.ID, nil
}

// CreateGatewayOrder 网关购买第一步：插入 pending 记录并向网关下单
// 网关下单失败时整个事务回滚，不留下没有网关单号的孤儿记录
func (s *PurchaseService) CreateGatewayOrder(userID string, courseID uint) (*GatewayOrder, error) {
	if Gateway == nil {
		return nil, errors.New("支付网关未初始化")
	}

	var result GatewayOrder
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		user, course, err := s.loadParties(tx, userID, courseID)
		if err != nil {
			return err
		}
		if err := s.guardNotEnrolled(tx, userID, courseID); err != nil {
			return err
		}

		purchase := s.newSnapshot(course, user, user.Name, user.PhoneNumber)
		purchase.Status = model.PurchaseStatusPending
		if err := tx.Create(purchase).Error; err != nil {
			return err
		}

		order, err := Gateway.CreateOrder(payment.CreateOrderParams{
			Amount:      purchase.AmountPaid,
			Currency:    payCurrency(),
			Description: "Course: " + course.Title,
			CustomID:    fmt.Sprintf("%d", course.ID),
			InvoiceID:   fmt.Sprintf("course-%d-%d", course.ID, purchase.ID),
			ReturnURL:   fmt.Sprintf("%s/payment/success?purchaseId=%d", frontendBaseURL(), purchase.ID),
			CancelURL:   fmt.Sprintf("%s/payment/canceled?purchaseId=%d", frontendBaseURL(), purchase.ID),
		})
		if err != nil {
			return err
		}

		if err := tx.Model(purchase).Update("paypal_order_id", order.OrderID).Error; err != nil {
			return err
		}

		result = GatewayOrder{
			PurchaseID:  purchase.ID,
			OrderID:     order.OrderID,
			ApprovalURL: order.ApprovalURL,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CaptureGatewayOrder 网关购买第二步：扣款并完成报名
// 扣款失败把记录置为 failed，这是终态，重试必须重新下单
func (s *PurchaseService) CaptureGatewayOrder(orderID string, purchaseID uint) (*CaptureOutcome, error) {
	if Gateway == nil {
		return nil, errors.New("支付网关未初始化")
	}
	if orderID == "" {
		return nil, ErrInvalidInput
	}

	var purchase model.Purchase
	if err := database.DB.First(&purchase, purchaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	if purchase.Status != model.PurchaseStatusPending {
		return nil, ErrPurchaseClosed
	}
	// 防止客户端拿别的订单号来核销这条记录
	if purchase.PayPalOrderID != orderID {
		return nil, ErrOrderMismatch
	}

	capture, err := Gateway.CaptureOrder(orderID)
	if err != nil {
		// 只把仍然 pending 的记录置为 failed，并发完成的记录不能被改坏
		if dbErr := database.DB.Model(&model.Purchase{}).
			Where("id = ? AND status = ?", purchase.ID, model.PurchaseStatusPending).
			Update("status", model.PurchaseStatusFailed).Error; dbErr != nil {
			logger.Errorf("标记购买记录 %d 为 failed 出错: %v", purchase.ID, dbErr)
		}
		return nil, err
	}

	now := time.Now()
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// 扣款期间状态可能被并发修改，提交前在锁内重读
		var current model.Purchase
		if err := withUpdateLock(tx).First(&current, purchase.ID).Error; err != nil {
			return err
		}
		// 已被并发扣款完成，不再重复落账和投影
		if current.Status == model.PurchaseStatusCompleted {
			return ErrPurchaseClosed
		}

		// 扣款已经成功，清理任务刚把记录扫成 failed 也要纠正回 completed，
		// 台账必须反映真实的资金状态
		updates := map[string]interface{}{
			"status":            model.PurchaseStatusCompleted,
			"enrolled_at":       &now,
			"paypal_capture_id": capture.CaptureID,
			"capture_detail":    string(capture.Raw),
		}
		result := tx.Model(&model.Purchase{}).
			Where("id = ? AND status <> ?", current.ID, model.PurchaseStatusCompleted).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPurchaseClosed
		}
		return Enrollment.Project(tx, purchase.UserID, purchase.CourseID)
	})
	if err != nil {
		return nil, err
	}

	purchase.EnrolledAt = &now
	s.sendEnrollmentEmail(&purchase)

	return &CaptureOutcome{
		PurchaseID: purchase.ID,
		CaptureID:  capture.CaptureID,
		Status:     capture.Status,
	}, nil
}

// PurchaseQuery 购买记录查询参数
type PurchaseQuery struct {
	CourseID  uint
	UserID    string
	Status    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// PurchasePage 分页结果
type PurchasePage struct {
	Items       []model.Purchase `json:"items"`
	Page        int              `json:"page"`
	Limit       int              `json:"limit"`
	Total       int64            `json:"total"`
	Pages       int              `json:"pages"`
	TotalAmount float64          `json:"totalAmount"` // 命中记录的实付金额合计
}

// 允许排序的列，防止把任意用户输入拼进 ORDER BY
var purchaseSortColumns = map[string]bool{
	"enrolled_at": true,
	"created_at":  true,
	"amount_paid": true,
	"status":      true,
}

// GetList 分页查询购买记录
func (s *PurchaseService) GetList(q PurchaseQuery) (*PurchasePage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}

	sortBy := q.SortBy
	if !purchaseSortColumns[sortBy] {
		sortBy = "enrolled_at"
	}
	order := "desc"
	if q.SortOrder == "asc" {
		order = "asc"
	}

	// gorm 的查询构造器会被终结方法污染，每个终结方法用一份新的条件
	buildQuery := func() *gorm.DB {
		db := database.DB.Model(&model.Purchase{})
		if q.CourseID != 0 {
			db = db.Where("course_id = ?", q.CourseID)
		}
		if q.UserID != "" {
			db = db.Where("user_id = ?", q.UserID)
		}
		if q.Status != "" {
			db = db.Where("status = ?", q.Status)
		}
		return db
	}

	var total int64
	if err := buildQuery().Count(&total).Error; err != nil {
		return nil, err
	}

	var totalAmount float64
	if err := buildQuery().Select("COALESCE(SUM(amount_paid), 0)").Scan(&totalAmount).Error; err != nil {
		return nil, err
	}

	var items []model.Purchase
	if err := buildQuery().
		Order(fmt.Sprintf("%s %s", sortBy, order)).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&items).Error; err != nil {
		return nil, err
	}

	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return &PurchasePage{
		Items:       items,
		Page:        q.Page,
		Limit:       q.Limit,
		Total:       total,
		Pages:       pages,
		TotalAmount: totalAmount,
	}, nil
}

// GetDetail 查询单条购买记录
func (s *PurchaseService) GetDetail(purchaseID uint) (*model.Purchase, error) {
	var purchase model.Purchase
	if err := database.DB.First(&purchase, purchaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// loadParties 在事务内加载买家和课程
// 先对用户行加锁，同一用户的并发购买在这里串行化，
// 后面的重复购买检查就不会出现两个事务互相看不到对方插入的窗口
func (s *PurchaseService) loadParties(tx *gorm.DB, userID string, courseID uint) (*model.User, *model.Course, error) {
	var user model.User
	if err := withUpdateLock(tx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	var course model.Course
	if err := tx.Preload("Educator").
		Where("is_published = ?", true).
		First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCourseNotFound
		}
		return nil, nil, err
	}
	return &user, &course, nil
}

// guardNotEnrolled 重复购买检查
// completed 记录永远阻断；pending 记录在有效期内也阻断，
// 超时未支付的 pending 和 failed 一样不挡新订单
func (s *PurchaseService) guardNotEnrolled(tx *gorm.DB, userID string, courseID uint) error {
	var count int64
	err := tx.Model(&model.Purchase{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Where("status = ? OR (status = ? AND created_at > ?)",
			model.PurchaseStatusCompleted,
			model.PurchaseStatusPending,
			time.Now().Add(-pendingTTL())).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyEnrolled
	}
	return nil
}

// newSnapshot 生成带课程和买家快照的购买记录，金额按折后价两位小数
func (s *PurchaseService) newSnapshot(course *model.Course, user *model.User, buyerName, buyerPhone string) *model.Purchase {
	return &model.Purchase{
		CourseID:        course.ID,
		UserID:          user.ID,
		CourseTitle:     course.Title,
		CourseThumbnail: course.Thumbnail,
		EducatorID:      course.EducatorID,
		EducatorName:    course.Educator.Name,
		CoursePrice:     course.Price,
		CourseDiscount:  course.Discount,
		BuyerName:       buyerName,
		BuyerEmail:      user.Email,
		BuyerImage:      user.ImageURL,
		BuyerPhone:      buyerPhone,
		AmountPaid:      course.EffectivePrice(),
	}
}

// sendEnrollmentEmail 报名成功通知，失败只记日志不影响主流程
func (s *PurchaseService) sendEnrollmentEmail(p *model.Purchase) {
	if p == nil || !mailer.Enabled() {
		return
	}
	go func() {
		subject := "报名成功：" + p.CourseTitle
		body := fmt.Sprintf("<p>%s，你好：</p><p>你已成功报名课程《%s》，实付金额 %.2f。</p>",
			p.BuyerName, p.CourseTitle, p.AmountPaid)
		if err := mailer.Send([]string{p.BuyerEmail}, subject, body); err != nil {
			logger.Warnf("发送报名通知邮件失败: %v", err)
		}
	}()
}

// withUpdateLock 行级写锁，sqlite（测试环境）不支持 FOR UPDATE 语法
func withUpdateLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// pendingTTL pending 记录的有效时长
func pendingTTL() time.Duration {
	minutes := 60
	if config.GlobalConfig != nil && config.GlobalConfig.Purchase.PendingTTLMinutes > 0 {
		minutes = config.GlobalConfig.Purchase.PendingTTLMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// payCurrency 结算货币
func payCurrency() string {
	if config.GlobalConfig != nil && config.GlobalConfig.PayPal.Currency != "" {
		return config.GlobalConfig.PayPal.Currency
	}
	return "USD"
}

// frontendBaseURL 前端地址，用于支付跳转链接
func frontendBaseURL() string {
	if config.GlobalConfig != nil {
		return config.GlobalConfig.Frontend.BaseURL
	}
	return ""
}
