package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lesson belongs to exactly one Subject. Prerequisites are advisory only and
// not enforced anywhere in the API.
type Lesson struct {
	ID                string        `gorm:"primaryKey;size:36" json:"id"`
	SubjectID         string        `gorm:"size:36;index;not null" json:"subject_id"`
	Title             string        `gorm:"size:255;not null" json:"title"`
	Description       string        `gorm:"size:1024" json:"description"`
	Content           LessonContent `gorm:"type:json" json:"content"`
	Difficulty        int           `gorm:"default:1" json:"difficulty"` // 1-5
	EstimatedDuration int           `gorm:"default:15" json:"estimated_duration"` // minutes
	Prerequisites     StringList    `gorm:"type:json" json:"prerequisites"`
	OrderIndex        int           `gorm:"default:0" json:"order_index"`
	CreatedAt         time.Time     `json:"created_at"`

	Subject *Subject `json:"-"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	return nil
}
