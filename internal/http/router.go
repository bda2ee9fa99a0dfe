package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/learnloop/learnloop-backend/internal/http/handlers"
	httpMW "github.com/learnloop/learnloop-backend/internal/http/middleware"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	RecommendationHandler *httpH.RecommendationHandler
	ProgressionHandler    *httpH.ProgressionHandler
	InteractionHandler    *httpH.InteractionHandler
	GraphHandler          *httpH.GraphHandler
	HealthHandler         *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Recommendations
		if cfg.RecommendationHandler != nil {
			api.GET("/recommendations/resources", cfg.RecommendationHandler.ResourcesForUser)
			api.GET("/recommendations/modules", cfg.RecommendationHandler.ModulesForCategories)
			api.GET("/resources/:id/related", cfg.RecommendationHandler.RelatedResources)
			api.GET("/resources/:id/modules", cfg.RecommendationHandler.ModulesForResource)
			api.GET("/modules/:id/paths", cfg.RecommendationHandler.PathsForModule)
			api.GET("/modules/:id/related", cfg.RecommendationHandler.RelatedModules)
			api.GET("/paths/:id/related", cfg.RecommendationHandler.RelatedPaths)
			api.GET("/paths/:id/resources", cfg.RecommendationHandler.ResourcesForPath)
		}

		// Progression
		if cfg.ProgressionHandler != nil {
			api.POST("/paths/:id/start", cfg.ProgressionHandler.StartPath)
			api.GET("/paths/:id/progress", cfg.ProgressionHandler.GetProgress)
			api.POST("/assessments/submit", cfg.ProgressionHandler.SubmitAssessment)
			api.POST("/modules/:id/complete", cfg.ProgressionHandler.CompleteModule)
		}

		// Interaction ledger
		if cfg.InteractionHandler != nil {
			api.POST("/interactions", cfg.InteractionHandler.Record)
			api.GET("/interactions", cfg.InteractionHandler.ListForUser)
			api.POST("/bookmarks", cfg.InteractionHandler.CreateBookmark)
			api.DELETE("/bookmarks/:id", cfg.InteractionHandler.DeleteBookmark)
		}

		// Admin
		if cfg.GraphHandler != nil {
			api.POST("/admin/graph/sync", cfg.GraphHandler.Sync)
		}
	}

	return r
}
