package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Achievement is static reference data describing a one-time reward.
type Achievement struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"size:512" json:"description"`
	Icon        string    `gorm:"size:64" json:"icon"`
	Condition   string    `gorm:"size:255" json:"condition"`
	XPReward    int       `gorm:"column:xp_reward;default:0" json:"xp_reward"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	return nil
}

// UserAchievement records that a user earned an achievement. The composite
// unique index is the backstop for the grant-at-most-once invariant; the
// evaluator treats a duplicate-key insert as already granted.
type UserAchievement struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"size:36;not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID string    `gorm:"size:36;not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`

	Achievement *Achievement `json:"achievement,omitempty"`
}

func (ua *UserAchievement) BeforeCreate(tx *gorm.DB) error {
	if ua.ID == "" {
		ua.ID = uuid.NewString()
	}
	if ua.EarnedAt.IsZero() {
		ua.EarnedAt = time.Now()
	}
	return nil
}
