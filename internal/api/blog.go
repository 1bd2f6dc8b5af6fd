package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"course-market/internal/service"
)

// blogPayload 博客正文字段，随 multipart 的 blogData 字段提交
type blogPayload struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// CreateBlog 发布博客，封面图走 multipart 上传到图片托管
func CreateBlog(c *gin.Context) {
	blogData := c.PostForm("blogData")
	if blogData == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "缺少 blogData 字段",
		})
		return
	}

	var payload blogPayload
	if err := json.Unmarshal([]byte(blogData), &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "blogData 格式错误",
		})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "缺少封面图片",
		})
		return
	}

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

	imageURL, err := service.Uploader.Upload(fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "图片上传失败: " + err.Error(),
		})
		return
	}

	blog, err := service.Blog.Create(payload.Title, payload.Content, payload.Category, imageURL)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "发布成功",
		"data": blog,
	})
}

// GetBlogs 博客列表，公开接口
func GetBlogs(c *gin.Context) {
	blogs, err := service.Blog.List()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": blogs,
	})
}

// GetBlogDetail 博客详情，公开接口
func GetBlogDetail(c *gin.Context) {
	blogId, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	blog, err := service.Blog.Get(uint(blogId))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": blog,
	})
}

// UpdateBlog 更新博客，换封面时重新走 multipart 上传
func UpdateBlog(c *gin.Context) {
	blogId, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	input := service.UpdateBlogInput{}

	if blogData := c.PostForm("blogData"); blogData != "" {
		var payload struct {
			Title    *string `json:"title"`
			Content  *string `json:"content"`
			Category *string `json:"category"`
		}
		if err := json.Unmarshal([]byte(blogData), &payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code": 400,
				"msg":  "blogData 格式错误",
			})
			return
		}
		input.Title = payload.Title
		input.Content = payload.Content
		input.Category = payload.Category
	}

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

		imageURL, err := service.Uploader.Upload(fileHeader.Filename, file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code": 500,
				"msg":  "图片上传失败: " + err.Error(),
			})
			return
		}
		input.ImageURL = &imageURL
	}

	blog, err := service.Blog.Update(uint(blogId), input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "更新成功",
		"data": blog,
	})
}

// DeleteBlog 删除博客
func DeleteBlog(c *gin.Context) {
	blogId, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "参数错误",
		})
		return
	}

	if err := service.Blog.Delete(uint(blogId)); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "删除成功",
	})
}
