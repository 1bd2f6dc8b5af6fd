package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"course-market/internal/model"
	"course-market/internal/pkg/database"
)

var ErrReviewNotFound = errors.New("评价不存在")

var Review = new(ReviewService)

// ReviewService 评价审核队列
// 提交即进入待审核状态，审核通过才对外展示，提交后作者不能再修改
type ReviewService struct{}

// Submit 提交评价
func (s *ReviewService) Submit(userID, content string, rating int) error {
	if strings.TrimSpace(content) == "" || rating < 1 || rating > 5 {
		return ErrInvalidInput
	}

	var user model.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// 落提交人快照，用户被删除后历史评价仍然完整
	review := &model.Review{
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
		UserImage: user.ImageURL,
		Content:   content,
		Rating:    rating,
		Approved:  false,
	}
	return database.DB.Create(review).Error
}

// Approve 审核通过，重复审核是空操作
func (s *ReviewService) Approve(reviewID uint) (*model.Review, error) {
	var review model.Review
	if err := database.DB.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if !review.Approved {
		if err := database.DB.Model(&review).Update("approved", true).Error; err != nil {
			return nil, err
		}
		review.Approved = true
	}
	return &review, nil
}

// Delete 删除评价
func (s *ReviewService) Delete(reviewID uint) error {
	result := database.DB.Delete(&model.Review{}, reviewID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// ListApproved 已审核通过的评价，最新的在前
func (s *ReviewService) ListApproved() ([]model.Review, error) {
	var reviews []model.Review
	err := database.DB.Where("approved = ?", true).
		Order("created_at desc").
		Find(&reviews).Error
	return reviews, err
}

// ListAll 全部评价（含待审核），管理端用
func (s *ReviewService) ListAll() ([]model.Review, error) {
	var reviews []model.Review
	err := database.DB.Order("created_at desc").Find(&reviews).Error
	return reviews, err
}
