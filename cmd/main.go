package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/learnloop/learnloop-backend/internal/app"
	"github.com/learnloop/learnloop-backend/internal/db"
	"github.com/learnloop/learnloop-backend/internal/graph"
	httpx "github.com/learnloop/learnloop-backend/internal/http"
	"github.com/learnloop/learnloop-backend/internal/http/handlers"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
	"github.com/learnloop/learnloop-backend/internal/platform/neo4jdb"
	"github.com/learnloop/learnloop-backend/internal/repos"
	"github.com/learnloop/learnloop-backend/internal/scoring"
	"github.com/learnloop/learnloop-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	cfg := app.LoadConfig(log)
	scoringCfg := scoring.FromEnv(log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Neo4j (optional; recommendations degrade to 503 without it)
	graphClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Warn("Neo4j init failed", "error", err)
	}
	if graphClient != nil {
		defer graphClient.Close(context.Background())
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	resourceRepo := repos.NewResourceRepo(thePG, log)
	moduleRepo := repos.NewModuleRepo(thePG, log)
	pathRepo := repos.NewLearningPathRepo(thePG, log)
	assessmentRepo := repos.NewAssessmentRepo(thePG, log)
	assessmentResultRepo := repos.NewAssessmentResultRepo(thePG, log)
	interactionRepo := repos.NewInteractionRepo(thePG, log)
	bookmarkRepo := repos.NewBookmarkRepo(thePG, log)
	progressRepo := repos.NewProgressRepo(thePG, log)
	searchAuditRepo := repos.NewSearchAuditRepo(thePG, log)

	// Graph projection + read view
	projector := graph.NewProjector(
		graphClient,
		scoringCfg,
		log,
		userRepo,
		resourceRepo,
		moduleRepo,
		pathRepo,
		interactionRepo,
		bookmarkRepo,
	)
	graphView := graph.NewNeo4jView(graphClient, log)

	// Services
	log.Info("Setting up Services from main...")
	recommendationService := services.NewRecommendationService(
		thePG,
		log,
		scoringCfg,
		graphView,
		userRepo,
		moduleRepo,
		pathRepo,
		progressRepo,
		searchAuditRepo,
		nil,
	)
	progressionService := services.NewProgressionService(
		thePG,
		log,
		userRepo,
		moduleRepo,
		pathRepo,
		assessmentRepo,
		assessmentResultRepo,
		interactionRepo,
		progressRepo,
	)
	interactionService := services.NewInteractionService(
		thePG,
		log,
		userRepo,
		resourceRepo,
		moduleRepo,
		pathRepo,
		interactionRepo,
		bookmarkRepo,
	)

	// Periodic projection
	if graphClient != nil && cfg.GraphSyncInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.GraphSyncInterval)
			defer ticker.Stop()
			for range ticker.C {
				if _, err := projector.Sync(context.Background()); err != nil {
					log.Warn("Scheduled graph sync failed", "error", err)
				}
			}
		}()
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	progressionHandler := handlers.NewProgressionHandler(progressionService)
	interactionHandler := handlers.NewInteractionHandler(interactionService)
	graphHandler := handlers.NewGraphHandler(projector)
	healthHandler := handlers.NewHealthHandler()

	// Router
	log.Info("Setting up router from main...")
	server := httpx.NewServer(httpx.RouterConfig{
		Log:                   log,
		RecommendationHandler: recommendationHandler,
		ProgressionHandler:    progressionHandler,
		InteractionHandler:    interactionHandler,
		GraphHandler:          graphHandler,
		HealthHandler:         healthHandler,
	})

	log.Info("Starting server", "port", cfg.Port)
	if err := server.Run(":" + cfg.Port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
