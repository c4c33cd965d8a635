package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashgupta200/AILearningJourney/models"
)

func TestRecordLessonCompletionGrantsXPAndStreak(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	ctx := context.Background()

	user := createTestUser(t, db, nil)
	subject := createTestSubject(t, db, "Mathematics")
	lesson := createTestLesson(t, db, subject.ID, "Fractions")

	record, err := svc.RecordLessonCompletion(ctx, user.ID, LessonCompletionInput{
		LessonID:  lesson.ID,
		SubjectID: subject.ID,
		Progress:  1.0,
		Completed: true,
		TimeSpent: 20,
		Score:     intPtr(8),
	})
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.Completed)
	require.NotNil(t, record.CompletedAt)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 50+8*2, reloaded.XPPoints)
	assert.Equal(t, 20, reloaded.TotalStudyTime)
	assert.Equal(t, 1, reloaded.CurrentStreak)
	require.NotNil(t, reloaded.LastActiveDate)
}

func TestRecordLessonCompletionNilScoreGrantsBaseXP(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	ctx := context.Background()

	user := createTestUser(t, db, nil)
	subject := createTestSubject(t, db, "Science")
	lesson := createTestLesson(t, db, subject.ID, "Plants")

	_, err := svc.RecordLessonCompletion(ctx, user.ID, LessonCompletionInput{
		LessonID:  lesson.ID,
		SubjectID: subject.ID,
		Progress:  1.0,
		Completed: true,
		TimeSpent: 10,
	})
	require.NoError(t, err)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 50, reloaded.XPPoints)
}

func TestRecordLessonCompletionPartialProgressNoReward(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	ctx := context.Background()

	user := createTestUser(t, db, nil)
	subject := createTestSubject(t, db, "English")
	lesson := createTestLesson(t, db, subject.ID, "Nouns")

	record, err := svc.RecordLessonCompletion(ctx, user.ID, LessonCompletionInput{
		LessonID:  lesson.ID,
		SubjectID: subject.ID,
		Progress:  0.4,
		TimeSpent: 5,
	})
	require.NoError(t, err)
	assert.False(t, record.Completed)
	assert.Nil(t, record.CompletedAt)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 0, reloaded.XPPoints)
	assert.Equal(t, 0, reloaded.CurrentStreak)
	assert.Nil(t, reloaded.LastActiveDate)
}

func TestRecordLessonCompletionUpsertsSingleRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	ctx := context.Background()

	user := createTestUser(t, db, nil)
	subject := createTestSubject(t, db, "History")
	lesson := createTestLesson(t, db, subject.ID, "Ancient Rome")

	first, err := svc.RecordLessonCompletion(ctx, user.ID, LessonCompletionInput{
		LessonID:  lesson.ID,
		SubjectID: subject.ID,
		Progress:  0.5,
		TimeSpent: 5,
	})
	require.NoError(t, err)

	second, err := svc.RecordLessonCompletion(ctx, user.ID, LessonCompletionInput{
		LessonID:  lesson.ID,
		SubjectID: subject.ID,
		Progress:  1.0,
		Completed: true,
		TimeSpent: 12,
		Score:     intPtr(9),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Completed)
	assert.Equal(t, 1.0, second.Progress)

	var count int64
	require.NoError(t, db.Model(&models.ProgressRecord{}).
		Where("user_id = ? AND lesson_id = ?", user.ID, lesson.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGrantQuizXP(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	ctx := context.Background()

	user := createTestUser(t, db, func(u *models.User) { u.XPPoints = 40 })

	xp, err := svc.GrantQuizXP(ctx, user.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 30, xp)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 70, reloaded.XPPoints)
	assert.Equal(t, 0, reloaded.TotalStudyTime)
}

func TestNextStreakTransitions(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("first activity starts at one", func(t *testing.T) {
		assert.Equal(t, 1, nextStreak(0, nil, now))
	})

	t.Run("consecutive calendar day increments", func(t *testing.T) {
		yesterday := now.AddDate(0, 0, -1)
		assert.Equal(t, 4, nextStreak(3, &yesterday, now))
	})

	t.Run("evening to next morning still increments", func(t *testing.T) {
		lastNight := time.Date(2026, 3, 9, 23, 50, 0, 0, time.UTC)
		assert.Equal(t, 3, nextStreak(2, &lastNight, now))
	})

	t.Run("same day leaves streak unchanged", func(t *testing.T) {
		earlier := now.Add(-2 * time.Hour)
		assert.Equal(t, 5, nextStreak(5, &earlier, now))
	})

	t.Run("same day with zero streak normalizes to one", func(t *testing.T) {
		earlier := now.Add(-1 * time.Hour)
		assert.Equal(t, 1, nextStreak(0, &earlier, now))
	})

	t.Run("gap resets to one", func(t *testing.T) {
		threeDaysAgo := now.AddDate(0, 0, -3)
		assert.Equal(t, 1, nextStreak(9, &threeDaysAgo, now))
	})
}

func TestAdvanceStreakPersists(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(db)
	ctx := context.Background()

	yesterday := time.Now().AddDate(0, 0, -1)
	user := createTestUser(t, db, func(u *models.User) {
		u.CurrentStreak = 2
		u.LastActiveDate = &yesterday
	})

	streak, err := svc.AdvanceStreak(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)

	// Same-day repeat is idempotent.
	streak, err = svc.AdvanceStreak(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 3, reloaded.CurrentStreak)
}

// End-to-end: a completion moves XP, streak, achievements and the dashboard
// rollup together.
func TestCompletionFlowUpdatesEverything(t *testing.T) {
	db := newTestDB(t)
	ledger := NewProgressService(db)
	achievements := NewAchievementService(db)
	reports := NewReportService(db)
	ctx := context.Background()

	seedXPAchievements(t, db)
	yesterday := time.Now().AddDate(0, 0, -1)
	user := createTestUser(t, db, func(u *models.User) {
		u.XPPoints = 90
		u.CurrentStreak = 2
		u.LastActiveDate = &yesterday
	})
	subject := createTestSubject(t, db, "Mathematics")
	lesson := createTestLesson(t, db, subject.ID, "Decimals")

	_, err := ledger.RecordLessonCompletion(ctx, user.ID, LessonCompletionInput{
		LessonID:  lesson.ID,
		SubjectID: subject.ID,
		Progress:  1.0,
		Completed: true,
		TimeSpent: 20,
		Score:     intPtr(10),
	})
	require.NoError(t, err)

	granted, err := achievements.Evaluate(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	require.NotNil(t, granted[0].Achievement)
	assert.Equal(t, "XP Master 100", granted[0].Achievement.Name)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 160, reloaded.XPPoints) // 90 + 50 + 10*2
	assert.Equal(t, 3, reloaded.CurrentStreak)

	overall, err := reports.Overall(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, overall.CompletedLessons)
	assert.Equal(t, 160, overall.TotalXP)
}
