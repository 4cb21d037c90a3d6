package models

import (
	"time"

	"github.com/google/uuid"
)

type Enrollment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_course_student" json:"course_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_course_student;index" json:"student_id"`
	PaymentID *uuid.UUID `gorm:"type:uuid" json:"payment_id,omitempty"`

	CompletedMaterials   []string `gorm:"serializer:json" json:"completed_materials"` // id các bài giảng đã hoàn thành
	CompletionPercentage float64  `gorm:"default:0" json:"completion_percentage"`

	RatingByStudent float64 `gorm:"default:0" json:"rating_by_student"` // 0 = chưa đánh giá, chỉ được đặt một lần
	ReviewByStudent string  `gorm:"type:text" json:"review_by_student"`

	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Course  Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Student User   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}
