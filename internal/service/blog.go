package service

import (
	"errors"

	"gorm.io/gorm"

	"course-market/internal/model"
	"course-market/internal/pkg/database"
	"course-market/internal/pkg/storage"
)

var ErrBlogNotFound = errors.New("博客不存在")

// Uploader 图片托管客户端，启动时注入
var Uploader *storage.Cloudinary

var Blog = new(BlogService)

type BlogService struct{}

// UpdateBlogInput 更新博客参数，nil 字段不修改
type UpdateBlogInput struct {
	Title    *string
	Content  *string
	Category *string
	ImageURL *string
}

// Create 创建博客
func (s *BlogService) Create(title, content, category, imageURL string) (*model.Blog, error) {
	if title == "" || content == "" || imageURL == "" {
		return nil, ErrInvalidInput
	}

	blog := &model.Blog{
		Title:    title,
		Content:  content,
		Category: category,
		ImageURL: imageURL,
	}
	if err := database.DB.Create(blog).Error; err != nil {
		return nil, err
	}
	return blog, nil
}

// List 博客列表，最新的在前
func (s *BlogService) List() ([]model.Blog, error) {
	var blogs []model.Blog
	err := database.DB.Order("created_at desc").Find(&blogs).Error
	return blogs, err
}

// Get 查询单篇博客
func (s *BlogService) Get(id uint) (*model.Blog, error) {
	var blog model.Blog
	if err := database.DB.First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// Update 部分更新博客
func (s *BlogService) Update(id uint, input UpdateBlogInput) (*model.Blog, error) {
	blog, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Content != nil {
		updates["content"] = *input.Content
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if len(updates) > 0 {
		if err := database.DB.Model(blog).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return blog, nil
}

// Delete 删除博客
func (s *BlogService) Delete(id uint) error {
	result := database.DB.Delete(&model.Blog{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return nil
}
