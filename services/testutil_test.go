package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akashgupta200/AILearningJourney/models"
)

// newTestDB opens an in-memory SQLite database with the full schema migrated.
// A single connection keeps the in-memory store alive and serializes writers.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Lesson{},
		&models.ProgressRecord{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.AiSession{},
		&models.Quiz{},
		&models.UserQuizResult{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, mutate func(*models.User)) *models.User {
	t.Helper()

	user := &models.User{
		Email:        "student@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "Student",
		Age:          10,
		GradeLevel:   5,
	}
	if mutate != nil {
		mutate(user)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createTestSubject(t *testing.T, db *gorm.DB, name string) *models.Subject {
	t.Helper()

	subject := &models.Subject{Name: name}
	if err := db.Create(subject).Error; err != nil {
		t.Fatalf("create subject: %v", err)
	}
	return subject
}

func createTestLesson(t *testing.T, db *gorm.DB, subjectID, title string) *models.Lesson {
	t.Helper()

	lesson := &models.Lesson{SubjectID: subjectID, Title: title}
	if err := db.Create(lesson).Error; err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	return lesson
}

func seedXPAchievements(t *testing.T, db *gorm.DB) {
	t.Helper()

	for _, threshold := range XPThresholds {
		ach := models.Achievement{
			Name:     fmt.Sprintf("XP Master %d", threshold),
			XPReward: threshold / 10,
		}
		if err := db.Create(&ach).Error; err != nil {
			t.Fatalf("seed achievement: %v", err)
		}
	}
}

func intPtr(v int) *int { return &v }
