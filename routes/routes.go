package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/megan-fernandes/edulearn-server/controllers"
	"github.com/megan-fernandes/edulearn-server/middleware"
	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB, hub *ws.Hub) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	// Kênh realtime (xác thực bằng token trong query)
	r.GET("/ws", ws.HandleWebSocket(hub))

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/refresh-token", controllers.RefreshToken)
		auth.POST("/reset-password-link", controllers.ResetPasswordLink)
		auth.POST("/reset-password", controllers.ResetPassword)
		auth.POST("/logout", middleware.AuthMiddleware(), controllers.Logout)
	}

	// Khóa học công khai (website) + chi tiết / đánh giá
	api.GET("/courses", controllers.GetCourses)
	api.GET("/courses/:courseId/reviews", controllers.GetCourseReviews)

	// Khu quản trị nội dung của giảng viên
	cms := api.Group("/cms")
	{
		cms.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db),
			middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin))

		cms.POST("/courses", controllers.CreateCourse)
		cms.PUT("/courses/:courseId", controllers.UpdateCourse)
		cms.PATCH("/courses/:courseId/toggle-publish", controllers.ToggleCoursePublish)
		cms.DELETE("/courses/:courseId", controllers.DeleteCourse)

		cms.GET("/courses/:courseId/chapters", controllers.GetChapters)
		cms.POST("/courses/:courseId/chapters", controllers.CreateChapter)
		cms.PUT("/chapters/:chapterId", controllers.UpdateChapter)
		cms.PATCH("/chapters/:chapterId/toggle-publish", controllers.ToggleChapterPublish)
		cms.DELETE("/chapters/:chapterId", controllers.DeleteChapter)

		cms.POST("/chapters/:chapterId/lectures", controllers.CreateLecture)
		cms.PUT("/chapters/:chapterId/lectures/:lectureId", controllers.UpdateLecture)
		cms.PATCH("/chapters/:chapterId/lectures/:lectureId/toggle-publish", controllers.ToggleLecturePublish)
		cms.DELETE("/chapters/:chapterId/lectures/:lectureId", controllers.DeleteLecture)

		cms.GET("/dashboard", controllers.GetInstructorDashboard)
	}

	// Khu học viên
	student := api.Group("/learn")
	{
		student.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db),
			middleware.RequireRoles(models.RoleStudent))

		student.POST("/enroll", controllers.EnrollStudent)
		student.GET("/courses", controllers.GetEnrolledCourses)
		student.GET("/courses/:courseId/progress", controllers.GetCourseProgress)
		student.POST("/progress", controllers.UpdateCourseProgress)
		student.POST("/rate", controllers.RateCourse)

		student.POST("/payments/checkout", controllers.CreateCheckoutSession)
		student.POST("/payments/confirm", controllers.ConfirmPayment)

		student.GET("/dashboard", controllers.GetStudentDashboard)
	}

	// Nhắn tin và thông báo dùng chung cho mọi vai trò đã đăng nhập
	user := api.Group("/user")
	{
		user.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))

		user.GET("/contacts", controllers.GetContacts)
		user.GET("/chats", controllers.GetChats)
		user.POST("/chats/messages", controllers.SendMessage)

		user.GET("/notifications", controllers.GetNotifications)
		user.GET("/notifications/unread-count", controllers.GetUnreadCount)
		user.PATCH("/notifications/:notificationId/read", controllers.MarkNotificationAsRead)
		user.PATCH("/notifications/read-all", controllers.MarkAllNotificationsAsRead)
	}

	return r
}
