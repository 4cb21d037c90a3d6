package models

import (
	"time"

	"github.com/google/uuid"
)

type LectureType string

const (
	LectureVideo   LectureType = "video"
	LecturePDF     LectureType = "pdf"
	LectureArticle LectureType = "article"
	LectureURL     LectureType = "url"
)

type Lecture struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ChapterID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"chapter_id"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Type        LectureType `gorm:"type:varchar(20)" json:"type"`
	URL         string      `gorm:"size:500" json:"url,omitempty"`          // video/pdf đã upload hoặc link ngoài
	ArticleData string      `gorm:"type:text" json:"article_data,omitempty"` // nội dung bài viết inline
	IsPublished bool        `gorm:"default:false" json:"is_published"`
	SortOrder   int         `gorm:"column:sort_order;default:1" json:"sort_order"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	Chapter Chapter `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
