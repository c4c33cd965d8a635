package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AiSession holds one user's append-only tutoring transcript plus the last
// conversational context hints.
type AiSession struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	UserID    string         `gorm:"size:36;not null;uniqueIndex" json:"user_id"`
	Messages  MessageList    `gorm:"type:json" json:"messages"`
	Context   SessionContext `gorm:"type:json" json:"context"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (s *AiSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	return nil
}

func (s *AiSession) BeforeUpdate(tx *gorm.DB) error {
	s.UpdatedAt = time.Now()
	return nil
}
