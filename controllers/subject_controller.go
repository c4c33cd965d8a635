package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akashgupta200/AILearningJourney/models"
	"github.com/akashgupta200/AILearningJourney/services"
	"github.com/akashgupta200/AILearningJourney/utils"
)

// SubjectController handles subject listing, creation and default-data seeding.
type SubjectController struct {
	db   *gorm.DB
	seed *services.SeedService
}

// NewSubjectController creates a new controller instance.
func NewSubjectController(db *gorm.DB) *SubjectController {
	return &SubjectController{db: db, seed: services.NewSeedService(db)}
}

// ListSubjects returns subjects applicable to the caller's grade level, or
// all subjects when the profile has no grade set. Results are cached.
func (s *SubjectController) ListSubjects(ctx *gin.Context) {
	grade := 0
	if userID, ok := getUserID(ctx); ok {
		var user models.User
		if err := s.db.First(&user, "id = ?", userID).Error; err == nil {
			grade = user.GradeLevel
		}
	}

	cacheKey := fmt.Sprintf("cache:subjects:grade:%d", grade)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		var cached []models.Subject
		if err := json.Unmarshal(b, &cached); err == nil {
			utils.Success(ctx, cached)
			return
		}
	}

	query := s.db.Order("name")
	if grade > 0 {
		query = query.Where("min_grade_level <= ? AND max_grade_level >= ?", grade, grade)
	}

	var subjects []models.Subject
	if err := query.Find(&subjects).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load subjects")
		return
	}

	utils.CacheSetJSON(cacheKey, subjects, time.Hour)
	utils.Success(ctx, subjects)
}

// CreateSubject inserts a new subject. Subjects are immutable afterwards.
func (s *SubjectController) CreateSubject(ctx *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		Description   string `json:"description"`
		Icon          string `json:"icon"`
		Color         string `json:"color"`
		MinGradeLevel int    `json:"min_grade_level"`
		MaxGradeLevel int    `json:"max_grade_level"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	subject := models.Subject{
		Name:          req.Name,
		Description:   req.Description,
		Icon:          req.Icon,
		Color:         req.Color,
		MinGradeLevel: req.MinGradeLevel,
		MaxGradeLevel: req.MaxGradeLevel,
	}
	if subject.MinGradeLevel == 0 {
		subject.MinGradeLevel = 1
	}
	if subject.MaxGradeLevel == 0 {
		subject.MaxGradeLevel = 12
	}

	if err := s.db.Create(&subject).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to create subject")
		return
	}

	utils.InvalidateByPrefix("cache:subjects:")
	utils.Created(ctx, subject)
}

// InitDefaults seeds the default subjects and achievement reference rows.
// Idempotent: a second call is a no-op.
func (s *SubjectController) InitDefaults(ctx *gin.Context) {
	seeded, err := s.seed.Seed(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to initialize default data")
		return
	}

	if seeded {
		utils.InvalidateByPrefix("cache:subjects:")
	}
	utils.Success(ctx, gin.H{"seeded": seeded})
}
