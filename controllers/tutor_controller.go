package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akashgupta200/AILearningJourney/models"
	"github.com/akashgupta200/AILearningJourney/services"
	"github.com/akashgupta200/AILearningJourney/utils"
)

// TutorController fronts the AI tutoring endpoints.
type TutorController struct {
	db           *gorm.DB
	tutor        *services.TutorService
	achievements *services.AchievementService
	reports      *services.ReportService
}

// NewTutorController creates a new controller instance.
func NewTutorController(db *gorm.DB, tutor *services.TutorService) *TutorController {
	return &TutorController{
		db:           db,
		tutor:        tutor,
		achievements: services.NewAchievementService(db),
		reports:      services.NewReportService(db),
	}
}

// Chat forwards a student message to the tutor and returns the reply.
// Upstream failures degrade to a canned reply rather than erroring out.
func (t *TutorController) Chat(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Message string                `json:"message" binding:"required"`
		Context models.SessionContext `json:"context"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid request payload")
		return
	}

	var user models.User
	if err := t.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to load user")
		return
	}

	reply, err := t.tutor.Chat(ctx.Request.Context(), &user, req.Message, req.Context)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to process chat message")
		return
	}

	utils.Success(ctx, reply)
}

// GetSession returns the user's tutoring transcript, empty if none exists.
func (t *TutorController) GetSession(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	session, err := t.tutor.Session(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to load session")
		return
	}
	utils.Success(ctx, session)
}

// Encouragement returns a short motivational message built from the user's
// recent activity. It always succeeds; failures fall back to a default line.
func (t *TutorController) Encouragement(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := t.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50083, "failed to load user")
		return
	}

	in := services.EncouragementInput{
		XPPoints:      user.XPPoints,
		CurrentStreak: user.CurrentStreak,
	}
	if earned, err := t.achievements.EarnedBy(ctx.Request.Context(), userID); err == nil {
		for i, ua := range earned {
			if i == 3 {
				break
			}
			if ua.Achievement != nil {
				in.RecentAchievements = append(in.RecentAchievements, ua.Achievement.Name)
			}
		}
	}
	if stats, err := t.reports.Stats(ctx.Request.Context(), userID); err == nil {
		in.StrugglingAreas = stats.ImprovementAreas
	}

	message := t.tutor.Encouragement(ctx.Request.Context(), in)
	utils.Success(ctx, gin.H{"message": message})
}
