package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akashgupta200/AILearningJourney/services"
	"github.com/akashgupta200/AILearningJourney/utils"
)

// StatsController serves the read-only analytics summary for a learner.
type StatsController struct {
	reports *services.ReportService
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{reports: services.NewReportService(db)}
}

// GetStats returns study time, average quiz score, subject strengths and the
// trailing-week activity series.
func (s *StatsController) GetStats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	stats, err := s.reports.Stats(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load stats")
		return
	}

	utils.Success(ctx, stats)
}
