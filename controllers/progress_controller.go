package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akashgupta200/AILearningJourney/models"
	"github.com/akashgupta200/AILearningJourney/services"
	"github.com/akashgupta200/AILearningJourney/utils"
)

// ProgressController drives the XP/streak ledger and serves progress rollups.
type ProgressController struct {
	db           *gorm.DB
	ledger       *services.ProgressService
	achievements *services.AchievementService
	reports      *services.ReportService
}

// NewProgressController creates a new controller instance.
func NewProgressController(db *gorm.DB) *ProgressController {
	return &ProgressController{
		db:           db,
		ledger:       services.NewProgressService(db),
		achievements: services.NewAchievementService(db),
		reports:      services.NewReportService(db),
	}
}

func overallCacheKey(userID string) string {
	return "cache:progress:overall:" + userID
}

// GetOverallProgress returns the dashboard rollup for the caller. The rollup
// is cached briefly; every ledger mutation invalidates it.
func (p *ProgressController) GetOverallProgress(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	if b, ok := utils.CacheGetBytes(overallCacheKey(userID)); ok {
		var cached services.OverallProgress
		if err := json.Unmarshal(b, &cached); err == nil {
			utils.Success(ctx, cached)
			return
		}
	}

	overall, err := p.reports.Overall(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load progress")
		return
	}

	utils.CacheSetJSON(overallCacheKey(userID), overall, 5*time.Minute)
	utils.Success(ctx, overall)
}

// GetSubjectProgress lists the caller's progress rows for one subject,
// newest completion first.
func (p *ProgressController) GetSubjectProgress(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	subjectID := ctx.Param("subjectId")

	var records []models.ProgressRecord
	if err := p.db.Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Order("completed_at DESC").
		Find(&records).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load subject progress")
		return
	}

	utils.Success(ctx, records)
}

// UpdateLessonProgress upserts one lesson's progress. A completion grants XP,
// advances the streak and runs the achievement evaluator in the same request.
func (p *ProgressController) UpdateLessonProgress(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		LessonID  string  `json:"lesson_id" binding:"required"`
		SubjectID string  `json:"subject_id" binding:"required"`
		Progress  float64 `json:"progress"`
		Completed bool    `json:"completed"`
		TimeSpent int     `json:"time_spent"`
		Score     *int    `json:"score"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	record, err := p.ledger.RecordLessonCompletion(ctx.Request.Context(), userID, services.LessonCompletionInput{
		LessonID:  req.LessonID,
		SubjectID: req.SubjectID,
		Progress:  req.Progress,
		Completed: req.Completed,
		TimeSpent: req.TimeSpent,
		Score:     req.Score,
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to update progress")
		return
	}

	newAchievements := []models.UserAchievement{}
	if req.Completed {
		granted, err := p.achievements.Evaluate(ctx.Request.Context(), userID)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to evaluate achievements")
			return
		}
		newAchievements = granted
	}

	utils.InvalidateByPrefix(overallCacheKey(userID))
	utils.Success(ctx, gin.H{
		"record":           record,
		"new_achievements": newAchievements,
	})
}
