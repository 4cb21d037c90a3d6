package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact là một dòng trong danh bạ: PrimaryUser có thể nhắn tin cho OtherUser.
// Quan hệ hai chiều được tạo bằng hai dòng (mỗi chiều một dòng) khi học viên
// ghi danh vào khóa học.
type Contact struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PrimaryUserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_contact_pair;index" json:"primary_user_id"`
	OtherUserID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_contact_pair" json:"other_user_id"`
	ChatID        *uuid.UUID `gorm:"type:uuid" json:"chat_id,omitempty"` // gắn sau khi hội thoại đầu tiên được tạo

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	OtherUser User `gorm:"foreignKey:OtherUserID" json:"other_user,omitempty"`
}
