package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressRecord is one row per (user, lesson) pair. Re-submitting progress
// for the same lesson updates the row instead of duplicating it.
type ProgressRecord struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"size:36;not null;uniqueIndex:idx_user_lesson" json:"user_id"`
	SubjectID   string     `gorm:"size:36;index;not null" json:"subject_id"`
	LessonID    string     `gorm:"size:36;not null;uniqueIndex:idx_user_lesson" json:"lesson_id"`
	Progress    float64    `gorm:"default:0" json:"progress"` // 0.0-1.0
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	TimeSpent   int        `gorm:"default:0" json:"time_spent"` // minutes
	Score       *int       `json:"score"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p *ProgressRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return nil
}

func (p *ProgressRecord) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}
