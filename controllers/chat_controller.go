package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/megan-fernandes/edulearn-server/utils"
)

type SendMessageInput struct {
	ReceiverID string `json:"receiver_id" binding:"required,uuid"`
	Text       string `json:"text" binding:"required"`
	ChatID     string `json:"chat_id" binding:"omitempty,uuid"`
}

// Danh bạ của người gọi; contactId lọc về một liên hệ duy nhất
func GetContacts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	var contactID *uuid.UUID
	if contactIDStr := c.Query("contactId"); contactIDStr != "" {
		parsed, err := uuid.Parse(contactIDStr)
		if err != nil {
			utils.SendError(c, utils.NewValidationFailed("contactId không hợp lệ", nil))
			return
		}
		contactID = &parsed
	}

	contacts, err := chatService.GetContacts(userID, contactID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Lấy danh bạ thành công", contacts)
}

// Hội thoại của người gọi; lọc theo chatId hoặc participantId nếu có
func GetChats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	var chatID, participantID *uuid.UUID
	if chatIDStr := c.Query("chatId"); chatIDStr != "" {
		parsed, err := uuid.Parse(chatIDStr)
		if err != nil {
			utils.SendError(c, utils.NewValidationFailed("chatId không hợp lệ", nil))
			return
		}
		chatID = &parsed
	}
	if participantIDStr := c.Query("participantId"); participantIDStr != "" {
		parsed, err := uuid.Parse(participantIDStr)
		if err != nil {
			utils.SendError(c, utils.NewValidationFailed("participantId không hợp lệ", nil))
			return
		}
		participantID = &parsed
	}

	chats, err := chatService.GetChats(userID, chatID, participantID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Lấy hội thoại thành công", chats)
}

// Gửi tin nhắn; tin chỉ được đẩy realtime sau khi đã lưu thành công
func SendMessage(c *gin.Context) {
	senderID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, utils.NewValidationFailed(err.Error(), nil))
		return
	}

	var chatID *uuid.UUID
	if input.ChatID != "" {
		parsed := uuid.MustParse(input.ChatID)
		chatID = &parsed
	}

	message, err := chatService.SendMessage(senderID, uuid.MustParse(input.ReceiverID), input.Text, chatID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusCreated, "Gửi tin nhắn thành công", message)
}
