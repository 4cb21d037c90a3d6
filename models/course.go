package models

import (
	"time"

	"github.com/google/uuid"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelExpert       CourseLevel = "expert"
	LevelAll          CourseLevel = "all"
)

type Course struct {
	ID             uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title          string      `gorm:"size:255;not null" json:"title"`
	TitleForSearch string      `gorm:"size:255;uniqueIndex;not null" json:"-"` // chuẩn hoá để tìm kiếm + chống trùng tên
	Description    string      `gorm:"type:text" json:"description"`
	Tags           []string    `gorm:"serializer:json" json:"tags"`
	Level          CourseLevel `gorm:"type:varchar(20);default:'all'" json:"level"`
	Thumbnail      string      `gorm:"size:500" json:"thumbnail"`
	Cost           float64     `gorm:"default:0;check:cost >= 0" json:"cost"`
	InstructorID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"instructor_id"`
	IsPublished    bool        `gorm:"default:false" json:"is_published"`
	Rating         float64     `gorm:"default:0" json:"rating"` // trung bình 0-5, tính lại khi có đánh giá

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Instructor User      `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Chapters   []Chapter `gorm:"foreignKey:CourseID" json:"curriculum,omitempty"`
}
