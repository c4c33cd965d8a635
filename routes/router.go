package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akashgupta200/AILearningJourney/config"
	"github.com/akashgupta200/AILearningJourney/controllers"
	"github.com/akashgupta200/AILearningJourney/middleware"
	"github.com/akashgupta200/AILearningJourney/services"
	"github.com/akashgupta200/AILearningJourney/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, tutor *services.TutorService) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	ginLogPath := cfg.GinPath
	// Use application log level as reference
	gl, err := utils.NewRollingFileLogger(ginLogPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	subjectController := controllers.NewSubjectController(db)
	lessonController := controllers.NewLessonController(db, tutor)
	progressController := controllers.NewProgressController(db)
	statsController := controllers.NewStatsController(db)
	achievementController := controllers.NewAchievementController(db)
	quizController := controllers.NewQuizController(db, tutor)
	tutorController := controllers.NewTutorController(db, tutor)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())

	protected.GET("/subjects", subjectController.ListSubjects)
	protected.POST("/subjects", subjectController.CreateSubject)
	protected.GET("/subjects/:id/lessons", lessonController.ListBySubject)

	protected.GET("/lessons/:id", lessonController.GetLesson)
	protected.GET("/lessons/:id/quizzes", quizController.ListByLesson)

	protected.GET("/progress", progressController.GetOverallProgress)
	protected.GET("/progress/:subjectId", progressController.GetSubjectProgress)
	protected.POST("/progress/lesson", progressController.UpdateLessonProgress)

	protected.GET("/stats", statsController.GetStats)

	protected.GET("/achievements", achievementController.ListEarned)
	protected.GET("/achievements/all", achievementController.ListAll)

	protected.POST("/quizzes/:id/submit", quizController.SubmitQuiz)

	// Generation endpoints live together and carry the rate limiter since
	// each call can hit the upstream model.
	ai := api.Group("/ai")
	ai.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	ai.POST("/chat", tutorController.Chat)
	ai.GET("/session", tutorController.GetSession)
	ai.POST("/generate-lesson", lessonController.GenerateLesson)
	ai.POST("/generate-quiz", quizController.GenerateQuiz)
	ai.GET("/encouragement", tutorController.Encouragement)

	api.POST("/init", subjectController.InitDefaults)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
