package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/akashgupta200/AILearningJourney/models"
)

// StatSnapshot is the read-only view of a user's cumulative stats that
// achievement rules evaluate against.
type StatSnapshot struct {
	XPPoints       int
	CurrentStreak  int
	TotalStudyTime int
}

// AchievementRule is one grant predicate. Rules are data: adding a new
// achievement type means appending a rule, not touching the evaluation loop.
type AchievementRule struct {
	Name      string
	Qualifies func(StatSnapshot) bool
}

// XPThresholds are the milestone values for the built-in XP rules, ascending.
var XPThresholds = []int{100, 500, 1000, 5000}

func defaultRules() []AchievementRule {
	rules := make([]AchievementRule, 0, len(XPThresholds))
	for _, threshold := range XPThresholds {
		t := threshold
		rules = append(rules, AchievementRule{
			Name: fmt.Sprintf("XP Master %d", t),
			Qualifies: func(s StatSnapshot) bool {
				return s.XPPoints >= t
			},
		})
	}
	return rules
}

// AchievementService scans a user's stats against the rule set and grants
// newly qualified achievements, each at most once.
type AchievementService struct {
	db    *gorm.DB
	rules []AchievementRule
}

// NewAchievementService creates a service with the built-in XP rules.
func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{db: db, rules: defaultRules()}
}

// Evaluate returns the achievements granted by this call only. Calling again
// with no stat change returns an empty slice.
func (s *AchievementService) Evaluate(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	snap := StatSnapshot{
		XPPoints:       user.XPPoints,
		CurrentStreak:  user.CurrentStreak,
		TotalStudyTime: user.TotalStudyTime,
	}

	granted := []models.UserAchievement{}
	for _, rule := range s.rules {
		if !rule.Qualifies(snap) {
			continue
		}

		var ach models.Achievement
		err := s.db.WithContext(ctx).First(&ach, "name = ?", rule.Name).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No reference row seeded for this rule; nothing to grant.
			continue
		}
		if err != nil {
			return nil, err
		}

		var existing int64
		if err := s.db.WithContext(ctx).Model(&models.UserAchievement{}).
			Where("user_id = ? AND achievement_id = ?", userID, ach.ID).
			Count(&existing).Error; err != nil {
			return nil, err
		}
		if existing > 0 {
			continue
		}

		ua := models.UserAchievement{UserID: userID, AchievementID: ach.ID}
		if err := s.db.WithContext(ctx).Create(&ua).Error; err != nil {
			// A concurrent evaluation won the race; the unique index makes
			// the duplicate insert a no-op rather than a double grant.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return nil, err
		}

		ua.Achievement = &ach
		granted = append(granted, ua)
	}

	return granted, nil
}

// EarnedBy lists a user's achievements, newest first, with the reference
// achievement embedded.
func (s *AchievementService) EarnedBy(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	var rows []models.UserAchievement
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for i := range rows {
		var ach models.Achievement
		if err := s.db.WithContext(ctx).First(&ach, "id = ?", rows[i].AchievementID).Error; err == nil {
			rows[i].Achievement = &ach
		}
	}
	return rows, nil
}
