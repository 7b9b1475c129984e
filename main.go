package main

import (
	"log"
	"time"

	api "jeetsocial/cmd/api"
	kindnessdomain "jeetsocial/internal/kindness/domain"
	kindnessRepo "jeetsocial/internal/kindness/repository"
	kindnessScheduler "jeetsocial/internal/kindness/scheduler"
	kindnessUsecase "jeetsocial/internal/kindness/usecase"
	postdomain "jeetsocial/internal/post/domain"
	postRepo "jeetsocial/internal/post/repository"
	postUsecase "jeetsocial/internal/post/usecase"
	"jeetsocial/pkg/config"
	"jeetsocial/pkg/database"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&postdomain.Post{}, &kindnessdomain.Vote{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	postRepository := postRepo.NewGormPostRepository(db)
	voteRepository := kindnessRepo.NewGormVoteRepository(db)

	// Initialize use cases
	postUsecaseInstance := postUsecase.NewPostUsecase(postRepository)
	kindnessUsecaseInstance := kindnessUsecase.NewKindnessUsecase(voteRepository, postRepository, cfg.SecretKey, cfg.KindnessTokenTTL)

	if !cfg.KindnessEnabled {
		log.Printf("[Kindness] ENABLE_KINDNESS_POINTS not set, kindness endpoints disabled")
	}

	// Start vote retention scheduler (prunes spent token hashes whose
	// tokens expired long ago)
	retentionScheduler := kindnessScheduler.NewVoteRetentionScheduler(voteRepository, 24*time.Hour)
	retentionScheduler.Start()
	defer retentionScheduler.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(postUsecaseInstance, kindnessUsecaseInstance, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
