package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentSuccessful PaymentStatus = "successful"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefund     PaymentStatus = "refund"
)

// Payment giữ snapshot chi tiết (học viên, khóa học, số tiền) tại thời điểm
// tạo phiên thanh toán, để bước xác nhận không phải đọc lại dữ liệu có thể
// đã thay đổi.
type Payment struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Status    PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	SessionID string        `gorm:"size:255;uniqueIndex;not null" json:"session_id"` // id phiên từ cổng thanh toán

	StudentID uuid.UUID `gorm:"type:uuid;not null" json:"student_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null" json:"course_id"`
	Amount    float64   `gorm:"not null" json:"amount"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
