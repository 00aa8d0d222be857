package main

import (
	"log"

	"github.com/tablevine/sommelier-backend/config"
	"github.com/tablevine/sommelier-backend/internal/api"
	"github.com/tablevine/sommelier-backend/internal/database"
	"github.com/tablevine/sommelier-backend/internal/middleware"
	"github.com/tablevine/sommelier-backend/internal/router"
	"github.com/tablevine/sommelier-backend/internal/server"
	"github.com/tablevine/sommelier-backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// The LLM classifier is optional; without credentials the explicit
	// profiling endpoint reports no profile.
	var classifier service.Classifier
	if llm, err := service.NewLLMService(); err != nil {
		log.Printf("LLM classifier disabled: %v", err)
	} else {
		classifier = llm
	}

	profiler := service.NewFlavorProfiler(db, classifier)
	pairings := service.NewPairingService(db, profiler)
	similarity := service.NewSimilarityService(db, profiler)
	recommender := service.NewRecommenderService(db, profiler)
	whiskey := service.NewWhiskeyRecommenderService(db, profiler)
	importer := service.NewWhiskeyCSVImporter(db)
	sessions := service.NewGuestSessionService(redisClient)
	auth := service.NewAuthService(db, cfg.JWTSecret)

	authHandler := api.NewAuthHandler(auth)
	sommelierHandler := api.NewSommelierHandler(
		profiler, pairings, similarity, recommender, whiskey, importer, sessions, auth)

	rateLimiter := middleware.NewRecommendationRateLimiter(redisClient)
	engine := router.SetupRouter(authHandler, sommelierHandler, cfg.AllowedOrigins, rateLimiter)

	srv := server.NewServer(engine)
	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := srv.Start(cfg.ServerPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
