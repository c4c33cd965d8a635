package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subject is a topical category such as "Mathematics". Immutable after
// creation except through admin-equivalent create calls.
type Subject struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	Description   string    `gorm:"size:512" json:"description"`
	Icon          string    `gorm:"size:64" json:"icon"`
	Color         string    `gorm:"size:32" json:"color"`
	MinGradeLevel int       `gorm:"default:1" json:"min_grade_level"`
	MaxGradeLevel int       `gorm:"default:12" json:"max_grade_level"`
	CreatedAt     time.Time `json:"created_at"`

	Lessons []Lesson `json:"-"`
}

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	return nil
}
