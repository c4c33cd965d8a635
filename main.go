package main

import (
	"context"
	"time"

	"github.com/akashgupta200/AILearningJourney/config"
	"github.com/akashgupta200/AILearningJourney/llm"
	"github.com/akashgupta200/AILearningJourney/models"
	"github.com/akashgupta200/AILearningJourney/routes"
	"github.com/akashgupta200/AILearningJourney/services"
	"github.com/akashgupta200/AILearningJourney/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Subject{},
		&models.Lesson{},
		&models.ProgressRecord{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.AiSession{},
		&models.Quiz{},
		&models.UserQuizResult{},
	)

	// Seed default subjects and the achievement catalog on first boot
	if _, err := services.NewSeedService(db).Seed(context.Background()); err != nil {
		utils.Sugar.Fatalf("seeding failed: %v", err)
	}

	gen, err := llm.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	if err != nil {
		utils.Sugar.Fatalf("openai client init failed: %v", err)
	}
	tutor := services.NewTutorService(db, gen, time.Duration(cfg.OpenAITimeoutSec)*time.Second)

	r := routes.SetupRouter(db, tutor)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
