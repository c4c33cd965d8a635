package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashgupta200/AILearningJourney/models"
)

func TestSeedInstallsDefaultsOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewSeedService(db)
	ctx := context.Background()

	seeded, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	var subjects int64
	require.NoError(t, db.Model(&models.Subject{}).Count(&subjects).Error)
	assert.EqualValues(t, 4, subjects)

	var achievements int64
	require.NoError(t, db.Model(&models.Achievement{}).Count(&achievements).Error)
	assert.EqualValues(t, int64(len(XPThresholds)), achievements)

	// Second run leaves everything untouched.
	seeded, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	require.NoError(t, db.Model(&models.Subject{}).Count(&subjects).Error)
	assert.EqualValues(t, 4, subjects)
}

func TestSeedMatchesRuleNames(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := NewSeedService(db).Seed(ctx)
	require.NoError(t, err)

	// Every built-in rule must resolve to a seeded reference row so the
	// evaluator can grant it.
	user := createTestUser(t, db, func(u *models.User) { u.XPPoints = 10000 })
	granted, err := NewAchievementService(db).Evaluate(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, granted, len(XPThresholds))
}
