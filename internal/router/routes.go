package router

import (
	"github.com/gin-gonic/gin"

	"course-market/internal/api"
	"course-market/internal/api/admin"
	"course-market/internal/middleware"
)

// SetupRoutes 配置所有路由
func SetupRoutes(r *gin.Engine) {
	// 健康检查接口（不需要任何中间件）
	r.GET("/health", api.SimpleHealthCheck)

	// 课程资料PDF静态文件
	r.Static("/uploads/pdfs", "uploads/pdfs")

	// 用户API路由
	setupUserRoutes(r)

	// 课程API路由
	setupCourseRoutes(r)

	// 博客API路由
	setupBlogRoutes(r)

	// 管理端API路由
	setupAdminRoutes(r)
}

// setupUserRoutes 设置用户API路由
func setupUserRoutes(r *gin.Engine) {
	userGroup := r.Group("/api/user")

	// 公开接口
	userGroup.GET("/reviews", api.GetReviews)

	// 档案同步只验令牌不查库，首次同步时库里还没有这个用户
	userGroup.POST("/data", middleware.JWTIdentity(), api.SyncUser)

	// 需要认证的路由
	authorized := userGroup.Group("/")
	authorized.Use(middleware.JWT())
	{
		authorized.GET("/data", api.GetUserData)

		// 购买相关
		authorized.POST("/purchase", api.CreatePurchase)
		authorized.GET("/purchase", api.GetPurchases)
		authorized.GET("/purchase/:id", api.GetPurchaseDetail)

		// 支付网关购买
		authorized.POST("/paypal/create-order", api.CreatePayPalOrder)
		authorized.POST("/paypal/capture-order/:orderID/:purchaseId", api.CapturePayPalOrder)

		// 报名相关
		authorized.GET("/enrolled-courses", api.GetEnrolledCourses)
		authorized.POST("/is-enrolled", api.IsEnrolled)

		// 学习进度
		authorized.POST("/update-course-progress", api.UpdateCourseProgress)
		authorized.POST("/get-course-progress", api.GetCourseProgress)

		// 评分与评价
		authorized.POST("/add-rating", api.AddCourseRating)
		authorized.POST("/reviews", api.SubmitReview)

		// 评价与用户管理（管理员）
		adminAuthorized := authorized.Group("/")
		adminAuthorized.Use(middleware.AdminAuth())
		{
			adminAuthorized.GET("/admin/reviews", admin.GetAllReviews)
			adminAuthorized.PUT("/admin/reviews/approve/:id", admin.ApproveReview)
			adminAuthorized.DELETE("/admin/reviews/:id", admin.DeleteReview)

			adminAuthorized.GET("/users", admin.GetUsers)
			adminAuthorized.DELETE("/user/:id", admin.DeleteUser)
		}
	}
}

// setupCourseRoutes 设置课程API路由
func setupCourseRoutes(r *gin.Engine) {
	courseGroup := r.Group("/api/course")

	// 公开接口，详情页可选带令牌以解锁已报名内容
	courseGroup.GET("/all", api.GetCourseList)
	courseGroup.GET("/:id", middleware.OptionalJWT(), api.GetCourseDetail)

	// 课程管理（管理员）
	authorized := courseGroup.Group("/")
	authorized.Use(middleware.JWT())
	authorized.Use(middleware.AdminAuth())
	{
		authorized.POST("", admin.CreateCourse)
		authorized.PUT("/update/:id", admin.UpdateCourse)
		authorized.DELETE("/del/:id", admin.DeleteCourse)
		authorized.POST("/pdf/:id", admin.UploadCoursePdf)
		authorized.GET("/students/:id", admin.GetEnrolledStudents)
	}
}

// setupBlogRoutes 设置博客API路由
func setupBlogRoutes(r *gin.Engine) {
	blogGroup := r.Group("/api/blogs")

	// 公开接口
	blogGroup.GET("/blog", api.GetBlogs)
	blogGroup.GET("/blog/:id", api.GetBlogDetail)

	// 博客管理（管理员）
	authorized := blogGroup.Group("/")
	authorized.Use(middleware.JWT())
	authorized.Use(middleware.AdminAuth())
	{
		authorized.POST("/blog", api.CreateBlog)
		authorized.PUT("/blog/:id", api.UpdateBlog)
		authorized.DELETE("/blog/:id", api.DeleteBlog)
	}
}

// setupAdminRoutes 设置管理端API路由
func setupAdminRoutes(r *gin.Engine) {
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.JWT())
	adminGroup.Use(middleware.AdminAuth())
	{
		adminGroup.GET("/dashboard", admin.GetDashboard)
	}
}
