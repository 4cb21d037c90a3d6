package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Chat là hội thoại giữa đúng hai người dùng. PairKey là cặp id đã sắp xếp,
// unique index trên đó bảo đảm mỗi cặp chỉ có một hội thoại kể cả khi hai
// tin nhắn đầu tiên được gửi đồng thời.
type Chat struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserAID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_a_id"`
	UserBID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_b_id"`
	PairKey string    `gorm:"size:100;uniqueIndex;not null" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	UserA    User          `gorm:"foreignKey:UserAID" json:"user_a,omitempty"`
	UserB    User          `gorm:"foreignKey:UserBID" json:"user_b,omitempty"`
	Messages []ChatMessage `gorm:"foreignKey:ChatID" json:"chats,omitempty"`
}

type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ChatID    uuid.UUID `gorm:"type:uuid;not null;index" json:"chat_id"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// ChatPairKey sắp xếp hai id rồi nối lại để làm khoá duy nhất cho cặp.
func ChatPairKey(a, b uuid.UUID) string {
	ids := []string{a.String(), b.String()}
	if strings.Compare(ids[0], ids[1]) > 0 {
		ids[0], ids[1] = ids[1], ids[0]
	}
	return ids[0] + ":" + ids[1]
}
