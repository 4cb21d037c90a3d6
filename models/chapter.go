package models

import (
	"time"

	"github.com/google/uuid"
)

type Chapter struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	IsPublished bool      `gorm:"default:false" json:"is_published"`
	SortOrder   int       `gorm:"column:sort_order;default:1" json:"sort_order"` // Thứ tự chương trong khóa học
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Course   Course    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Lectures []Lecture `gorm:"foreignKey:ChapterID" json:"lectures,omitempty"`
}
