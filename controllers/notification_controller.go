package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

// Danh sách thông báo của người gọi, mới nhất trước
func GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}
	offset, limit := pagination(c)

	query := db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}

	var list []models.Notification
	if err := query.Find(&list).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Lấy thông báo thành công", list)
}

// Đếm số thông báo chưa đọc
func GetUnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	var count int64
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Lấy số thông báo chưa đọc thành công", gin.H{
		"unread_count": count,
	})
}

// Đánh dấu một thông báo đã đọc và đẩy badge mới qua websocket
func MarkNotificationAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	notificationID, err := uuid.Parse(c.Param("notificationId"))
	if err != nil {
		utils.SendError(c, utils.NewValidationFailed("notificationId không hợp lệ", nil))
		return
	}

	var notification models.Notification
	if err := db.First(&notification, "id = ? AND user_id = ?", notificationID, userID).Error; err != nil {
		utils.SendError(c, utils.NewNotFound("Không tìm thấy thông báo"))
		return
	}

	if !notification.IsRead {
		now := time.Now()
		if err := db.Model(&notification).
			Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error; err != nil {
			utils.SendError(c, err)
			return
		}
	}

	pushUnreadCount(userID)
	utils.SendResponse(c, http.StatusOK, "Đã đánh dấu thông báo là đã đọc", nil)
}

func MarkAllNotificationsAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	now := time.Now()
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	pushUnreadCount(userID)
	utils.SendResponse(c, http.StatusOK, "Đã đánh dấu tất cả thông báo là đã đọc", nil)
}

// Gửi cập nhật badge realtime về phòng cá nhân của người dùng
func pushUnreadCount(userID uuid.UUID) {
	if hub == nil {
		return
	}
	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count)
	hub.Push(userID.String(), "unreadCount", gin.H{"unread_count": count})
}
