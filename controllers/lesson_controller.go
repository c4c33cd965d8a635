package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akashgupta200/AILearningJourney/models"
	"github.com/akashgupta200/AILearningJourney/services"
	"github.com/akashgupta200/AILearningJourney/utils"
)

// LessonController handles lesson reads and AI-backed lesson generation.
type LessonController struct {
	db    *gorm.DB
	tutor *services.TutorService
}

// NewLessonController creates a new controller instance.
func NewLessonController(db *gorm.DB, tutor *services.TutorService) *LessonController {
	return &LessonController{db: db, tutor: tutor}
}

// ListBySubject returns a subject's lessons in curriculum order.
func (l *LessonController) ListBySubject(ctx *gin.Context) {
	subjectID := ctx.Param("id")

	var lessons []models.Lesson
	if err := l.db.Where("subject_id = ?", subjectID).Order("order_index").Find(&lessons).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load lessons")
		return
	}

	utils.Success(ctx, lessons)
}

// GetLesson returns one lesson with its structured content payload.
func (l *LessonController) GetLesson(ctx *gin.Context) {
	id := ctx.Param("id")

	var lesson models.Lesson
	if err := l.db.First(&lesson, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "lesson not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load lesson")
		return
	}

	utils.Success(ctx, lesson)
}

// GenerateLesson asks the orchestrator for lesson content and persists the
// result. Generation failure is a hard error here: without content there is
// no lesson to return.
func (l *LessonController) GenerateLesson(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		SubjectID  string `json:"subject_id" binding:"required"`
		Subject    string `json:"subject" binding:"required"`
		Topic      string `json:"topic" binding:"required"`
		GradeLevel int    `json:"grade_level"`
		Difficulty int    `json:"difficulty"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	grade := req.GradeLevel
	if grade == 0 {
		var user models.User
		if err := l.db.First(&user, "id = ?", userID).Error; err == nil && user.GradeLevel > 0 {
			grade = user.GradeLevel
		} else {
			grade = 5
		}
	}
	difficulty := req.Difficulty
	if difficulty < 1 || difficulty > 5 {
		difficulty = 1
	}

	content, err := l.tutor.LessonContent(ctx.Request.Context(), req.Subject, req.Topic, grade, difficulty)
	if err != nil {
		if errors.Is(err, services.ErrGenerationFailed) {
			utils.Error(ctx, http.StatusInternalServerError, 50220, "failed to generate lesson")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to generate lesson")
		return
	}

	lesson := models.Lesson{
		SubjectID:         req.SubjectID,
		Title:             content.Title,
		Description:       content.Explanation,
		Content:           *content,
		Difficulty:        difficulty,
		EstimatedDuration: 15,
		Prerequisites:     models.StringList{},
	}
	if err := l.db.Create(&lesson).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to save lesson")
		return
	}

	utils.Created(ctx, lesson)
}
