package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/akashgupta200/AILearningJourney/models"
)

// SeedService installs the default reference data. Seeding is idempotent:
// it is a no-op when rows already exist.
type SeedService struct {
	db *gorm.DB
}

// NewSeedService creates a new service instance.
func NewSeedService(db *gorm.DB) *SeedService {
	return &SeedService{db: db}
}

func defaultSubjects() []models.Subject {
	return []models.Subject{
		{Name: "Mathematics", Description: "Numbers, equations, and problem solving", Icon: "calculator", Color: "green", MinGradeLevel: 1, MaxGradeLevel: 12},
		{Name: "Science", Description: "Explore the natural world and universe", Icon: "flask", Color: "blue", MinGradeLevel: 1, MaxGradeLevel: 12},
		{Name: "English", Description: "Reading, writing, and communication", Icon: "book", Color: "purple", MinGradeLevel: 1, MaxGradeLevel: 12},
		{Name: "History", Description: "Learn about the past and civilizations", Icon: "globe", Color: "orange", MinGradeLevel: 1, MaxGradeLevel: 12},
	}
}

// Seed inserts the default subjects and the XP milestone achievements when
// their tables are empty. Returns whether anything was inserted.
func (s *SeedService) Seed(ctx context.Context) (bool, error) {
	seeded := false

	var subjectCount int64
	if err := s.db.WithContext(ctx).Model(&models.Subject{}).Count(&subjectCount).Error; err != nil {
		return false, err
	}
	if subjectCount == 0 {
		for _, subject := range defaultSubjects() {
			subj := subject
			if err := s.db.WithContext(ctx).Create(&subj).Error; err != nil {
				return seeded, err
			}
		}
		seeded = true
	}

	var achievementCount int64
	if err := s.db.WithContext(ctx).Model(&models.Achievement{}).Count(&achievementCount).Error; err != nil {
		return seeded, err
	}
	if achievementCount == 0 {
		for _, threshold := range XPThresholds {
			ach := models.Achievement{
				Name:        fmt.Sprintf("XP Master %d", threshold),
				Description: fmt.Sprintf("Earn %d experience points", threshold),
				Icon:        "trophy",
				Condition:   fmt.Sprintf("xp_points >= %d", threshold),
				XPReward:    threshold / 10,
			}
			if err := s.db.WithContext(ctx).Create(&ach).Error; err != nil {
				return seeded, err
			}
		}
		seeded = true
	}

	return seeded, nil
}
