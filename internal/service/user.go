package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"course-market/internal/model"
	"course-market/internal/pkg/database"
)

// 身份服务没下发头像时的默认值
const defaultAvatarURL = "https://example.com/default-avatar.png"

var User = new(UserService)

// UserService 用户档案
// 用户ID由外部身份服务下发，首次解析到身份时同步建档
type UserService struct{}

// CreateOrUpdate 按外部身份建档或刷新档案
func (s *UserService) CreateOrUpdate(id, email, firstName, lastName, imageURL string) (*model.User, error) {
	if id == "" || email == "" {
		return nil, ErrInvalidInput
	}

	// 没有姓名时用邮箱前缀兜底
	name := strings.TrimSpace(firstName + " " + lastName)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	if imageURL == "" {
		imageURL = defaultAvatarURL
	}

	user := &model.User{
		ID:       id,
		Name:     name,
		Email:    email,
		ImageURL: imageURL,
		Role:     model.RoleUser,
	}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "image_url", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return nil, err
	}

	// 回读一次，拿到已有记录的角色等字段
	return s.Get(id)
}

// Get 查询用户
func (s *UserService) Get(id string) (*model.User, error) {
	var user model.User
	if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List 用户列表，管理端用
func (s *UserService) List() ([]model.User, error) {
	var users []model.User
	err := database.DB.Order("created_at desc").Find(&users).Error
	return users, err
}

// Delete 删除用户，只有管理员可以触发
func (s *UserService) Delete(id string) error {
	result := database.DB.Delete(&model.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
