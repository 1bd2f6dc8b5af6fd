package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"course-market/internal/model"
	"course-market/internal/service"
)

// coursePayload 课程字段，随 multipart 的 courseData 字段提交
type coursePayload struct {
	Title       string          `json:"courseTitle"`
	Description string          `json:"courseDescription"`
	Category    string          `json:"category"`
	Price       float64         `json:"coursePrice"`
	Discount    int             `json:"discount"`
	IsPublished *bool           `json:"isPublished"`
	Chapters    []model.Chapter `json:"courseContent"`
}

// CreateCourse 创建课程，缩略图走 multipart 上传到图片托管
func CreateCourse(c *gin.Context) {
	courseData := c.PostForm("courseData")
	if courseData == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "缺少 courseData 字段",
		})
		return
	}

	var payload coursePayload
	if err := json.Unmarshal([]byte(courseData), &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "courseData 格式错误",
		})
		return
	}

	var thumbnail string
	if fileHeader, err := c.FormFile("image"); err == nil {
		if service.Uploader == nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code": 500,
				"msg":  "图片托管未初始化",
			})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code": 500,
				"msg":  "读取图片失败",
			})
			return
		}
		defer file.Close()

		thumbnail, err = service.Uploader.Upload(fileHeader.Filename, file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code": 500,
				"msg":  "图片上传失败: " + err.Error(),
			})
			return
		}
	}

	adminUser := c.MustGet("adminUser").(model.User)
	courseId, err := service.Course.Create(service.CreateCourseInput{
		Title:       payload.Title,
		Description: payload.Description,
		Thumbnail:   thumbnail,
		Category:    payload.Category,
		Price:       payload.Price,
		Discount:    payload.Discount,
		EducatorID:  adminUser.ID,
		IsPublished: payload.IsPublished,
		Chapters:    payload.Chapters,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "创建成功",
		"data": gin.H{
			"courseId": courseId,
		},
	})
}

// UpdateCourse 部分更新课程
func UpdateCourse(c *gin.Context) {
	courseId, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	var req struct {
		Title       *string  `json:"courseTitle"`
		Description *string  `json:"courseDescription"`
		Category    *string  `json:"category"`
		Price       *float64 `json:"coursePrice"`
		Discount    *int     `json:"discount"`
		IsPublished *bool    `json:"isPublished"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	err = service.Course.Update(uint(courseId), service.UpdateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Discount:    req.Discount,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "更新成功",
	})
}

// DeleteCourse 删除课程
func DeleteCourse(c *gin.Context) {
	courseId, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	if err := service.Course.Delete(uint(courseId)); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "删除成功",
	})
}

// UploadCoursePdf 上传课程资料PDF，保存到本地并绑定到课程
func UploadCoursePdf(c *gin.Context) {
	courseId, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "缺少PDF文件",
		})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "只支持PDF文件",
		})
		return
	}

	if err := os.MkdirAll("uploads/pdfs", 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "创建上传目录失败",
		})
		return
	}

	fileName := fmt.Sprintf("course-%d-%d.pdf", courseId, time.Now().Unix())
	savePath := filepath.Join("uploads/pdfs", fileName)
	if err := c.SaveUploadedFile(fileHeader, savePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "保存文件失败",
		})
		return
	}

	pdfURL := "/uploads/pdfs/" + fileName
	if err := service.Course.AttachPdf(uint(courseId), pdfURL); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "上传成功",
		"data": gin.H{
			"pdfUrl": pdfURL,
		},
	})
}

// GetEnrolledStudents 课程学员列表
func GetEnrolledStudents(c *gin.Context) {
	courseId, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	students, err := service.Enrollment.GetEnrolledStudents(uint(courseId))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": students,
	})
}
