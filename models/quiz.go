package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quiz belongs to a Lesson and holds an ordered list of questions.
type Quiz struct {
	ID        string       `gorm:"primaryKey;size:36" json:"id"`
	LessonID  string       `gorm:"size:36;index;not null" json:"lesson_id"`
	Title     string       `gorm:"size:255;not null" json:"title"`
	Questions QuestionList `gorm:"type:json" json:"questions"`
	CreatedAt time.Time    `json:"created_at"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	return nil
}

// UserQuizResult records one attempt's raw answers and derived score.
type UserQuizResult struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	UserID         string    `gorm:"size:36;index;not null" json:"user_id"`
	QuizID         string    `gorm:"size:36;index;not null" json:"quiz_id"`
	Score          int       `gorm:"not null" json:"score"`
	TotalQuestions int       `gorm:"not null" json:"total_questions"`
	Answers        IntList   `gorm:"type:json" json:"answers"`
	CompletedAt    time.Time `json:"completed_at"`

	Quiz *Quiz `json:"quiz,omitempty"`
}

func (r *UserQuizResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CompletedAt.IsZero() {
		r.CompletedAt = time.Now()
	}
	return nil
}
