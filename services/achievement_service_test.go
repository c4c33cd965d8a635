package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashgupta200/AILearningJourney/models"
)

func TestEvaluateGrantsOnlyQualifiedThresholds(t *testing.T) {
	db := newTestDB(t)
	svc := NewAchievementService(db)
	ctx := context.Background()

	seedXPAchievements(t, db)
	user := createTestUser(t, db, func(u *models.User) { u.XPPoints = 150 })

	granted, err := svc.Evaluate(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	require.NotNil(t, granted[0].Achievement)
	assert.Equal(t, "XP Master 100", granted[0].Achievement.Name)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewAchievementService(db)
	ctx := context.Background()

	seedXPAchievements(t, db)
	user := createTestUser(t, db, func(u *models.User) { u.XPPoints = 600 })

	first, err := svc.Evaluate(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, first, 2) // 100 and 500

	second, err := svc.Evaluate(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, second)

	var count int64
	require.NoError(t, db.Model(&models.UserAchievement{}).
		Where("user_id = ?", user.ID).
		Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestEvaluateGrantsNewTierAfterXPGrowth(t *testing.T) {
	db := newTestDB(t)
	svc := NewAchievementService(db)
	ctx := context.Background()

	seedXPAchievements(t, db)
	user := createTestUser(t, db, func(u *models.User) { u.XPPoints = 150 })

	_, err := svc.Evaluate(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", user.ID).
		UpdateColumn("xp_points", 1200).Error)

	granted, err := svc.Evaluate(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, granted, 2)

	names := []string{}
	for _, ua := range granted {
		require.NotNil(t, ua.Achievement)
		names = append(names, ua.Achievement.Name)
	}
	assert.ElementsMatch(t, []string{"XP Master 500", "XP Master 1000"}, names)
}

func TestEvaluateSkipsUnseededRules(t *testing.T) {
	db := newTestDB(t)
	svc := NewAchievementService(db)
	ctx := context.Background()

	// No reference rows at all: qualification alone grants nothing.
	user := createTestUser(t, db, func(u *models.User) { u.XPPoints = 9999 })

	granted, err := svc.Evaluate(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, granted)
}

func TestEarnedByNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewAchievementService(db)
	ctx := context.Background()

	seedXPAchievements(t, db)
	user := createTestUser(t, db, func(u *models.User) { u.XPPoints = 600 })

	_, err := svc.Evaluate(ctx, user.ID)
	require.NoError(t, err)

	earned, err := svc.EarnedBy(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, earned, 2)
	for _, ua := range earned {
		require.NotNil(t, ua.Achievement)
	}
	for i := 1; i < len(earned); i++ {
		assert.False(t, earned[i].EarnedAt.After(earned[i-1].EarnedAt))
	}
}
