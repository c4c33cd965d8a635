package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JSON column wrappers. MySQL hands JSON columns back as []byte; gorm needs
// Valuer/Scanner pairs to round-trip typed slices without an open-ended map.

func scanJSON(dest interface{}, value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported JSON column source type")
	}
}

// StringList stores an ordered list of strings as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error { return scanJSON(l, value) }

// LessonExample is one worked example inside lesson content.
type LessonExample struct {
	Problem     string `json:"problem"`
	Solution    string `json:"solution"`
	Explanation string `json:"explanation"`
}

// QuizQuestion is a single multiple-choice question. CorrectAnswer is an
// index into Options.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    int      `json:"difficulty,omitempty"`
}

// QuestionList stores quiz questions as a JSON column.
type QuestionList []QuizQuestion

func (l QuestionList) Value() (driver.Value, error) {
	if l == nil {
		l = QuestionList{}
	}
	return json.Marshal(l)
}

func (l *QuestionList) Scan(value interface{}) error { return scanJSON(l, value) }

// LessonContent is the structured payload of a generated lesson.
type LessonContent struct {
	Title             string          `json:"title"`
	Explanation       string          `json:"explanation"`
	Examples          []LessonExample `json:"examples"`
	KeyPoints         []string        `json:"keyPoints"`
	PracticeQuestions []QuizQuestion  `json:"practiceQuestions"`
}

func (c LessonContent) Value() (driver.Value, error) { return json.Marshal(c) }

func (c *LessonContent) Scan(value interface{}) error { return scanJSON(c, value) }

// ChatMessage is one transcript entry in an AI tutoring session.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageList stores a session transcript as a JSON column.
type MessageList []ChatMessage

func (l MessageList) Value() (driver.Value, error) {
	if l == nil {
		l = MessageList{}
	}
	return json.Marshal(l)
}

func (l *MessageList) Scan(value interface{}) error { return scanJSON(l, value) }

// SessionContext carries the conversational hints for prompting.
type SessionContext struct {
	Subject      string `json:"subject,omitempty"`
	CurrentTopic string `json:"currentTopic,omitempty"`
}

func (c SessionContext) Value() (driver.Value, error) { return json.Marshal(c) }

func (c *SessionContext) Scan(value interface{}) error { return scanJSON(c, value) }

// IntList stores raw per-question answer indexes as a JSON column.
type IntList []int

func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		l = IntList{}
	}
	return json.Marshal(l)
}

func (l *IntList) Scan(value interface{}) error { return scanJSON(l, value) }
