package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Lecture 课时
type Lecture struct {
	LectureID       string `json:"lectureId"`
	LectureTitle    string `json:"lectureTitle"`
	LectureDuration string `json:"lectureDuration"`
	LectureURL      string `json:"lectureUrl"`
	IsPreviewFree   bool   `json:"isPreviewFree"` // 免费试看
	LectureOrder    int    `json:"lectureOrder"`
}

// Chapter 章节
type Chapter struct {
	ChapterID      string    `json:"chapterId"`
	ChapterOrder   int       `json:"chapterOrder"`
	ChapterTitle   string    `json:"chapterTitle"`
	ChapterContent []Lecture `json:"chapterContent"`
}

// 课程
type Course struct {
	ID          uint   `gorm:"primarykey"`
	Title       string `gorm:"size:128"`
	Description string `gorm:"type:text"`
	Thumbnail   string `gorm:"size:255"`
	PdfURL      string `gorm:"size:255"` // 课程资料PDF
	Category    string `gorm:"size:50"`
	Price       float64
	Discount    int    `gorm:"default:0"`    // 折扣百分比，0-100
	IsPublished bool   `gorm:"default:true"` // 是否上架
	EducatorID  string `gorm:"size:64;index"`
	Educator    User   `gorm:"foreignKey:EducatorID"`
	Content     string `gorm:"type:json"` // 章节内容，JSON字符串
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// GetContent 获取章节内容
func (c *Course) GetContent() ([]Chapter, error) {
	var chapters []Chapter
	if c.Content == "" {
		return chapters, nil
	}
	err := json.Unmarshal([]byte(c.Content), &chapters)
	return chapters, err
}

// SetContent 设置章节内容
func (c *Course) SetContent(chapters []Chapter) error {
	data, err := json.Marshal(chapters)
	if err != nil {
		return err
	}
	c.Content = string(data)
	return nil
}

// EffectivePrice 折后价格，保留两位小数
// 两条购买路径共用这一处计算，避免四舍五入口径不一致
func (c *Course) EffectivePrice() float64 {
	price := decimal.NewFromFloat(c.Price)
	factor := decimal.NewFromInt(int64(100 - c.Discount)).Div(decimal.NewFromInt(100))
	amount := price.Mul(factor).Round(2)
	if amount.IsNegative() {
		return 0
	}
	result, _ := amount.Float64()
	return result
}

// CourseRating 课程评分，每个用户对一门课程只保留一条
type CourseRating struct {
	ID        uint   `gorm:"primarykey"`
	CourseID  uint   `gorm:"index:idx_course_user_rating,unique"`
	UserID    string `gorm:"size:64;index:idx_course_user_rating,unique"`
	Rating    int    // 1-5
	CreatedAt time.Time
	UpdatedAt time.Time
}
