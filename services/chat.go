package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

type ChatService struct {
	db  *gorm.DB
	hub RoomPusher
}

func NewChatService(db *gorm.DB, hub RoomPusher) *ChatService {
	return &ChatService{db: db, hub: hub}
}

// ContactResponse là một dòng danh bạ đã resolve thông tin công khai của
// người bên kia.
type ContactResponse struct {
	ID       uuid.UUID  `json:"id"`
	UserID   uuid.UUID  `json:"user_id"`
	FullName string     `json:"full_name"`
	Email    string     `json:"email"`
	Profile  string     `json:"profile"`
	ChatID   *uuid.UUID `json:"chat_id,omitempty"`
}

// ChatResponse là hội thoại nhìn từ phía người gọi: "to" là người còn lại.
type ChatResponse struct {
	ID         uuid.UUID            `json:"id"`
	To         string               `json:"to"`
	ReceiverID uuid.UUID            `json:"receiver_id"`
	Chats      []models.ChatMessage `json:"chats"`
	CreatedAt  time.Time            `json:"created_at"`
}

// GetContacts trả về danh bạ của người dùng, lọc theo một contact cụ thể nếu
// được yêu cầu.
func (s *ChatService) GetContacts(userID uuid.UUID, contactID *uuid.UUID) ([]ContactResponse, error) {
	query := s.db.Where("primary_user_id = ?", userID).
		Preload("OtherUser").
		Order("updated_at DESC")
	if contactID != nil {
		query = query.Where("id = ?", *contactID)
	}

	var contacts []models.Contact
	if err := query.Find(&contacts).Error; err != nil {
		return nil, err
	}

	out := make([]ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		out = append(out, ContactResponse{
			ID:       contact.ID,
			UserID:   contact.OtherUserID,
			FullName: contact.OtherUser.FullName,
			Email:    contact.OtherUser.Email,
			Profile:  contact.OtherUser.Profile,
			ChatID:   contact.ChatID,
		})
	}
	return out, nil
}

// GetChats trả về các hội thoại mà người gọi tham gia, mỗi hội thoại được
// định hình lại theo người đối diện, tin nhắn theo thứ tự gửi.
func (s *ChatService) GetChats(userID uuid.UUID, chatID, participantID *uuid.UUID) ([]ChatResponse, error) {
	query := s.db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Preload("UserA").
		Preload("UserB").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("chat_messages.created_at ASC")
		}).
		Preload("Messages.Sender").
		Order("updated_at DESC")
	if chatID != nil {
		query = query.Where("id = ?", *chatID)
	}
	if participantID != nil {
		query = query.Where("pair_key = ?", models.ChatPairKey(userID, *participantID))
	}

	var chats []models.Chat
	if err := query.Find(&chats).Error; err != nil {
		return nil, err
	}

	out := make([]ChatResponse, 0, len(chats))
	for _, chat := range chats {
		counterpart := chat.UserA
		if chat.UserAID == userID {
			counterpart = chat.UserB
		}
		out = append(out, ChatResponse{
			ID:         chat.ID,
			To:         counterpart.FullName,
			ReceiverID: counterpart.ID,
			Chats:      chat.Messages,
			CreatedAt:  chat.CreatedAt,
		})
	}
	return out, nil
}

// SendMessage ghi tin nhắn vào hội thoại (tìm theo id hoặc theo cặp, chưa có
// thì tạo) rồi đẩy realtime vào room của hội thoại. Push chạy SAU khi ghi DB
// thành công: bản ghi là bản chính, push rớt cũng không mất tin nhắn.
func (s *ChatService) SendMessage(senderID, receiverID uuid.UUID, text string, chatID *uuid.UUID) (*models.ChatMessage, error) {
	if senderID == receiverID {
		return nil, utils.NewInvalidOperation("Không thể gửi tin nhắn cho chính mình")
	}

	var sender models.User
	if err := s.db.First(&sender, "id = ?", senderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFound("Không tìm thấy người gửi")
		}
		return nil, err
	}

	chat, created, err := s.findOrCreateChat(senderID, receiverID, chatID)
	if err != nil {
		return nil, err
	}

	if created {
		// gắn id hội thoại vào dòng danh bạ của người gửi
		err := s.db.Model(&models.Contact{}).
			Where("primary_user_id = ? AND other_user_id = ?", senderID, receiverID).
			Update("chat_id", chat.ID).Error
		if err != nil {
			log.Println("Không gắn được hội thoại vào danh bạ:", err)
		}
	}

	message := models.ChatMessage{
		ChatID:   chat.ID,
		SenderID: senderID,
		Text:     text,
		IsRead:   false,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}
	// đổi updated_at để hội thoại nổi lên đầu danh sách
	s.db.Model(&models.Chat{}).Where("id = ?", chat.ID).Update("updated_at", time.Now())

	if s.hub != nil {
		s.hub.Push(chat.ID.String(), "receiveMessage", map[string]interface{}{
			"chatId": chat.ID.String(),
			"text":   text,
			"sender": map[string]interface{}{
				"id":        sender.ID.String(),
				"full_name": sender.FullName,
				"email":     sender.Email,
			},
			"createdAt": message.CreatedAt,
		})
	}
	return &message, nil
}

func (s *ChatService) findOrCreateChat(senderID, receiverID uuid.UUID, chatID *uuid.UUID) (*models.Chat, bool, error) {
	pairKey := models.ChatPairKey(senderID, receiverID)

	var chat models.Chat
	query := s.db.Where("pair_key = ?", pairKey)
	if chatID != nil {
		query = s.db.Where("id = ? OR pair_key = ?", *chatID, pairKey)
	}
	err := query.First(&chat).Error
	if err == nil {
		return &chat, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	chat = models.Chat{
		UserAID: senderID,
		UserBID: receiverID,
		PairKey: pairKey,
	}
	if err := s.db.Create(&chat).Error; err != nil {
		// hai tin nhắn đầu tiên chạy đua: unique index trên pair_key chặn bản
		// sao, đọc lại hội thoại thắng cuộc
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "UNIQUE") {
			if err := s.db.Where("pair_key = ?", pairKey).First(&chat).Error; err != nil {
				return nil, false, err
			}
			return &chat, false, nil
		}
		return nil, false, err
	}
	return &chat, true, nil
}

// LinkContacts tạo quan hệ danh bạ hai chiều giữa học viên và giảng viên khi
// ghi danh. Upsert kiểu add-to-set: gọi lại bao nhiêu lần cũng không tạo
// dòng trùng.
func (s *ChatService) LinkContacts(studentID, instructorID uuid.UUID) error {
	contacts := []models.Contact{
		{PrimaryUserID: studentID, OtherUserID: instructorID},
		{PrimaryUserID: instructorID, OtherUserID: studentID},
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "primary_user_id"}, {Name: "other_user_id"}},
		DoNothing: true,
	}).Create(&contacts).Error
}
