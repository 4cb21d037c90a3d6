package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin      UserRole = "admin"      // Quản trị hệ thống
	RoleInstructor UserRole = "instructor" // Giảng viên (quản lý khóa học)
	RoleStudent    UserRole = "student"    // Học viên
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName string    `gorm:"size:150;not null" json:"full_name"`
	Email    string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password string    `gorm:"type:text" json:"-"`
	Profile  string    `gorm:"size:500" json:"profile"` // URL ảnh đại diện
	Role     UserRole  `gorm:"type:varchar(20);not null;default:'student'" json:"role"`

	RefreshToken  string `gorm:"type:text" json:"-"`
	ResetToken    string `gorm:"type:text" json:"-"`
	ResetTokenExp int64  `json:"-"` // unix millis, hạn của link đặt lại mật khẩu

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
