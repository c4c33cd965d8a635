package services

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akashgupta200/AILearningJourney/models"
)

// Base XP for finishing a lesson, plus a per-score bonus.
const (
	lessonBaseXP  = 50
	scoreBonusXP  = 2
	quizCorrectXP = 10
)

// ProgressService owns the XP/streak ledger: it upserts per-lesson progress
// rows and mutates the user's cumulative counters in response to completions.
type ProgressService struct {
	db *gorm.DB
}

// NewProgressService creates a new service instance.
func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// LessonCompletionInput carries one progress submission. Progress is the
// caller-supplied 0..1 fraction and is stored as given.
type LessonCompletionInput struct {
	LessonID  string
	SubjectID string
	Progress  float64
	Completed bool
	TimeSpent int // minutes
	Score     *int
}

// RecordLessonCompletion upserts the (user, lesson) progress row. When the
// submission marks the lesson completed it grants XP and advances the daily
// streak; partial progress alone never grants reward.
func (s *ProgressService) RecordLessonCompletion(ctx context.Context, userID string, in LessonCompletionInput) (*models.ProgressRecord, error) {
	record := models.ProgressRecord{
		UserID:    userID,
		SubjectID: in.SubjectID,
		LessonID:  in.LessonID,
		Progress:  in.Progress,
		Completed: in.Completed,
		TimeSpent: in.TimeSpent,
		Score:     in.Score,
	}
	if in.Completed {
		now := time.Now()
		record.CompletedAt = &now
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"progress", "completed", "completed_at", "time_spent", "score", "updated_at",
		}),
	}).Create(&record).Error
	if err != nil {
		return nil, err
	}

	// The conflict path keeps the original row's primary key; reload so the
	// caller sees the persisted state.
	var saved models.ProgressRecord
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, in.LessonID).
		First(&saved).Error; err != nil {
		return nil, err
	}

	if in.Completed {
		score := 0
		if in.Score != nil {
			score = *in.Score
		}
		xpGain := lessonBaseXP + score*scoreBonusXP
		if err := s.GrantXP(ctx, userID, xpGain, in.TimeSpent); err != nil {
			return nil, err
		}
		if _, err := s.AdvanceStreak(ctx, userID); err != nil {
			return nil, err
		}
	}

	return &saved, nil
}

// GrantQuizXP rewards a quiz attempt with a fixed amount per correct answer.
// Quiz time is tracked on the lesson, so study time is left untouched.
func (s *ProgressService) GrantQuizXP(ctx context.Context, userID string, correctAnswers int) (int, error) {
	xp := correctAnswers * quizCorrectXP
	return xp, s.GrantXP(ctx, userID, xp, 0)
}

// GrantXP atomically increments the user's XP and cumulative study time.
// The increments execute server-side so concurrent completions for the same
// user never lose an update.
func (s *ProgressService) GrantXP(ctx context.Context, userID string, xp, studyMinutes int) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"xp_points":        gorm.Expr("xp_points + ?", xp),
			"total_study_time": gorm.Expr("total_study_time + ?", studyMinutes),
			"updated_at":       time.Now(),
		}).Error
}

// AdvanceStreak applies the daily streak state machine and stamps the user's
// last-active date. Same-day repeats leave the streak unchanged; a one-day
// gap increments it; anything longer resets it to 1.
func (s *ProgressService) AdvanceStreak(ctx context.Context, userID string) (int, error) {
	var newStreak int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		// SQLite has no SELECT ... FOR UPDATE; its writer is serialized anyway.
		if tx.Dialector.Name() == "mysql" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var user models.User
		if err := q.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		now := time.Now()
		newStreak = nextStreak(user.CurrentStreak, user.LastActiveDate, now)

		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumns(map[string]interface{}{
				"current_streak":   newStreak,
				"last_active_date": now,
				"updated_at":       now,
			}).Error
	})
	return newStreak, err
}

// nextStreak compares calendar days, not elapsed 24h windows, so an evening
// event followed by a morning one still counts as consecutive days.
func nextStreak(current int, lastActive *time.Time, now time.Time) int {
	if lastActive == nil {
		return 1
	}

	diff := daysBetween(*lastActive, now)
	switch {
	case diff == 1:
		return current + 1
	case diff > 1:
		return 1
	default:
		// Same day (or clock skew): idempotent within a day.
		if current < 1 {
			return 1
		}
		return current
	}
}

func daysBetween(from, to time.Time) int {
	from = from.In(to.Location())
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, to.Location())
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
	// Rounding absorbs DST-shortened or -lengthened days.
	return int(math.Round(toDay.Sub(fromDay).Hours() / 24))
}
