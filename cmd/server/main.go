package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/jorge11BYU/project3/internal/api"
	"github.com/jorge11BYU/project3/internal/config"
	"github.com/jorge11BYU/project3/internal/logging"
	"github.com/jorge11BYU/project3/internal/repository"
	"github.com/jorge11BYU/project3/internal/service"
	"github.com/jorge11BYU/project3/internal/session"
)

func main() {
	// Allow .env for local runs
	_ = godotenv.Load()

	log := logging.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer db.Close()

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Create session store
	store := session.NewStore(cfg.Session.Secret, cfg.Session.TTL)

	// Sweep expired sessions periodically
	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@every 10m", func() {
		if n := store.PruneExpired(); n > 0 {
			log.Debug().Int("removed", n).Msg("pruned expired sessions")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule session sweep")
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Create service
	svc := service.NewDefaultService(repo, log)

	// Create API handler
	handler := api.NewHandler(svc, store, log)

	// Set up Gin router
	router := gin.Default()
	router.LoadHTMLGlob("web/templates/*.html")

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", serverAddr).Msg("condo manager listening")
	if err := router.Run(serverAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
