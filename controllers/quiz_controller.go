package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akashgupta200/AILearningJourney/models"
	"github.com/akashgupta200/AILearningJourney/services"
	"github.com/akashgupta200/AILearningJourney/utils"
)

// QuizController handles quiz reads, AI-backed generation and submission.
type QuizController struct {
	db           *gorm.DB
	tutor        *services.TutorService
	ledger       *services.ProgressService
	achievements *services.AchievementService
}

// NewQuizController creates a new controller instance.
func NewQuizController(db *gorm.DB, tutor *services.TutorService) *QuizController {
	return &QuizController{
		db:           db,
		tutor:        tutor,
		ledger:       services.NewProgressService(db),
		achievements: services.NewAchievementService(db),
	}
}

// ListByLesson returns all quizzes attached to a lesson.
func (q *QuizController) ListByLesson(ctx *gin.Context) {
	lessonID := ctx.Param("id")

	var quizzes []models.Quiz
	if err := q.db.Where("lesson_id = ?", lessonID).Find(&quizzes).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load quizzes")
		return
	}
	utils.Success(ctx, quizzes)
}

// GenerateQuiz asks the orchestrator for questions and persists the quiz.
// Generation failure is a hard error.
func (q *QuizController) GenerateQuiz(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		LessonID     string `json:"lesson_id" binding:"required"`
		Subject      string `json:"subject" binding:"required"`
		Topic        string `json:"topic" binding:"required"`
		GradeLevel   int    `json:"grade_level"`
		NumQuestions int    `json:"num_questions"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid request payload")
		return
	}

	grade := req.GradeLevel
	if grade == 0 {
		var user models.User
		if err := q.db.First(&user, "id = ?", userID).Error; err == nil && user.GradeLevel > 0 {
			grade = user.GradeLevel
		} else {
			grade = 5
		}
	}
	n := req.NumQuestions
	if n <= 0 {
		n = 5
	}

	questions, err := q.tutor.Quiz(ctx.Request.Context(), req.Subject, req.Topic, grade, n)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50270, "failed to generate quiz")
		return
	}

	quiz := models.Quiz{
		LessonID:  req.LessonID,
		Title:     fmt.Sprintf("%s Quiz", req.Topic),
		Questions: questions,
	}
	if err := q.db.Create(&quiz).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to save quiz")
		return
	}

	utils.Created(ctx, quiz)
}

// SubmitQuiz scores an attempt against the stored answer key, records the
// result, grants quiz XP and runs the achievement evaluator.
func (q *QuizController) SubmitQuiz(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	quizID := ctx.Param("id")

	var req struct {
		Answers []int `json:"answers" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40071, "invalid request payload")
		return
	}

	var quiz models.Quiz
	if err := q.db.First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40470, "quiz not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load quiz")
		return
	}

	correct := 0
	for i, question := range quiz.Questions {
		if i < len(req.Answers) && req.Answers[i] == question.CorrectAnswer {
			correct++
		}
	}
	total := len(quiz.Questions)

	result := models.UserQuizResult{
		UserID:         userID,
		QuizID:         quizID,
		Score:          correct,
		TotalQuestions: total,
		Answers:        req.Answers,
	}
	if err := q.db.Create(&result).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to save quiz result")
		return
	}

	xpGained, err := q.ledger.GrantQuizXP(ctx.Request.Context(), userID, correct)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to grant quiz XP")
		return
	}

	newAchievements, err := q.achievements.Evaluate(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50075, "failed to evaluate achievements")
		return
	}

	percentage := 0.0
	if total > 0 {
		percentage = float64(correct) / float64(total) * 100
	}

	// The XP grant changed the dashboard rollup.
	utils.InvalidateByPrefix(overallCacheKey(userID))

	utils.Success(ctx, gin.H{
		"result":           result,
		"score":            correct,
		"total_questions":  total,
		"percentage":       percentage,
		"xp_gained":        xpGained,
		"new_achievements": newAchievements,
	})
}
