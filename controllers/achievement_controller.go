package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akashgupta200/AILearningJourney/models"
	"github.com/akashgupta200/AILearningJourney/services"
	"github.com/akashgupta200/AILearningJourney/utils"
)

// AchievementController lists reference achievements and the caller's earned ones.
type AchievementController struct {
	db        *gorm.DB
	evaluator *services.AchievementService
}

// NewAchievementController creates a new controller instance.
func NewAchievementController(db *gorm.DB) *AchievementController {
	return &AchievementController{db: db, evaluator: services.NewAchievementService(db)}
}

// ListAll returns the static achievement catalog.
func (a *AchievementController) ListAll(ctx *gin.Context) {
	var achievements []models.Achievement
	if err := a.db.Order("xp_reward").Find(&achievements).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to load achievements")
		return
	}
	utils.Success(ctx, achievements)
}

// ListEarned returns the caller's earned achievements, newest first, with the
// reference achievement embedded.
func (a *AchievementController) ListEarned(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	earned, err := a.evaluator.EarnedBy(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load earned achievements")
		return
	}
	utils.Success(ctx, earned)
}
