package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/megan-fernandes/edulearn-server/services"
	"github.com/megan-fernandes/edulearn-server/ws"
)

var (
	db                *gorm.DB
	hub               *ws.Hub
	progressService   *services.ProgressService
	chatService       *services.ChatService
	enrollmentService *services.EnrollmentService
	curriculumService *services.CurriculumService
)

// Init nhận các dependency đã dựng ở main; controller không tự mở kết nối.
func Init(database *gorm.DB, h *ws.Hub, notifier *services.NotificationService) {
	db = database
	hub = h
	progressService = services.NewProgressService(database, notifier)
	chatService = services.NewChatService(database, h)
	enrollmentService = services.NewEnrollmentService(database, chatService, notifier)
	curriculumService = services.NewCurriculumService(database, progressService)
}

// currentUserID lấy id người gọi do AuthMiddleware đặt vào context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, ok := c.Get("user_id")
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// pagination đọc page/limit từ query; limit 0 nghĩa là không giới hạn.
func pagination(c *gin.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ = strconv.Atoi(c.Query("limit"))
	if page > 0 && limit > 0 {
		offset = (page - 1) * limit
	}
	return offset, limit
}
