package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a learner. Passwords are stored as bcrypt hashes only.
type User struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	Email             string     `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash      string     `gorm:"size:255" json:"-"`
	FirstName         string     `gorm:"size:64" json:"first_name"`
	LastName          string     `gorm:"size:64" json:"last_name"`
	AvatarURL         string     `gorm:"size:512" json:"avatar_url"`
	Age               int        `json:"age"`
	GradeLevel        int        `json:"grade_level"`
	PreferredLanguage string     `gorm:"size:8;default:en" json:"preferred_language"`
	XPPoints          int        `gorm:"column:xp_points;default:0" json:"xp_points"`
	CurrentStreak     int        `gorm:"default:0" json:"current_streak"`
	TotalStudyTime    int        `gorm:"default:0" json:"total_study_time"` // minutes
	LastActiveDate    *time.Time `json:"last_active_date"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// BeforeCreate assigns an ID and ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
