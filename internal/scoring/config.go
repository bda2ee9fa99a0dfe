package scoring

import (
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
	"github.com/learnloop/learnloop-backend/internal/utils"
)

// Config carries every scoring coefficient and per-context result cap.
// There are no magic numbers in the engine; everything lives here.
type Config struct {
	// Base interaction weights, ordered low to high importance.
	ViewWeight           float64
	StartWeight          float64
	BookmarkWeight       float64
	CompleteModuleWeight float64
	CompletePathWeight   float64
	DefaultWeight        float64

	// RecencyHorizonDays is the window over which an interaction's weight
	// decays linearly; at and beyond the horizon the multiplier floors at 1.
	RecencyHorizonDays int

	// Composite coefficients for related-resource scoring.
	CategoryOverlapCoeff       float64
	TagOverlapCoeff            float64
	TitleSimilarityCoeff       float64
	DescriptionSimilarityCoeff float64
	InteractionBoostCoeff      float64

	// Per-context result caps.
	ResourcesForUserLimit     int
	RelatedResourcesLimit     int
	ModulesForResourceLimit   int
	PathsForModuleLimit       int
	RelatedPathsLimit         int
	ResourcesForPathLimit     int
	RelatedModulesLimit       int
	ModulesForCategoriesLimit int
}

func Default() Config {
	return Config{
		ViewWeight:           2,
		StartWeight:          3,
		BookmarkWeight:       4,
		CompleteModuleWeight: 5,
		CompletePathWeight:   6,
		DefaultWeight:        1,

		RecencyHorizonDays: 10,

		CategoryOverlapCoeff:       2,
		TagOverlapCoeff:            2,
		TitleSimilarityCoeff:       1,
		DescriptionSimilarityCoeff: 1,
		InteractionBoostCoeff:      3,

		ResourcesForUserLimit:     6,
		RelatedResourcesLimit:     12,
		ModulesForResourceLimit:   5,
		PathsForModuleLimit:       5,
		RelatedPathsLimit:         5,
		ResourcesForPathLimit:     6,
		RelatedModulesLimit:       6,
		ModulesForCategoriesLimit: 10,
	}
}

func FromEnv(log *logger.Logger) Config {
	cfg := Default()
	cfg.ViewWeight = utils.GetEnvAsFloat("SCORE_WEIGHT_VIEW", cfg.ViewWeight, log)
	cfg.StartWeight = utils.GetEnvAsFloat("SCORE_WEIGHT_START", cfg.StartWeight, log)
	cfg.BookmarkWeight = utils.GetEnvAsFloat("SCORE_WEIGHT_BOOKMARK", cfg.BookmarkWeight, log)
	cfg.CompleteModuleWeight = utils.GetEnvAsFloat("SCORE_WEIGHT_COMPLETE_MODULE", cfg.CompleteModuleWeight, log)
	cfg.CompletePathWeight = utils.GetEnvAsFloat("SCORE_WEIGHT_COMPLETE_PATH", cfg.CompletePathWeight, log)
	cfg.RecencyHorizonDays = utils.GetEnvAsInt("SCORE_RECENCY_HORIZON_DAYS", cfg.RecencyHorizonDays, log)
	cfg.ResourcesForUserLimit = utils.GetEnvAsInt("RECO_RESOURCES_FOR_USER_LIMIT", cfg.ResourcesForUserLimit, log)
	cfg.RelatedResourcesLimit = utils.GetEnvAsInt("RECO_RELATED_RESOURCES_LIMIT", cfg.RelatedResourcesLimit, log)
	cfg.ModulesForResourceLimit = utils.GetEnvAsInt("RECO_MODULES_FOR_RESOURCE_LIMIT", cfg.ModulesForResourceLimit, log)
	cfg.PathsForModuleLimit = utils.GetEnvAsInt("RECO_PATHS_FOR_MODULE_LIMIT", cfg.PathsForModuleLimit, log)
	cfg.RelatedPathsLimit = utils.GetEnvAsInt("RECO_RELATED_PATHS_LIMIT", cfg.RelatedPathsLimit, log)
	cfg.ResourcesForPathLimit = utils.GetEnvAsInt("RECO_RESOURCES_FOR_PATH_LIMIT", cfg.ResourcesForPathLimit, log)
	cfg.RelatedModulesLimit = utils.GetEnvAsInt("RECO_RELATED_MODULES_LIMIT", cfg.RelatedModulesLimit, log)
	cfg.ModulesForCategoriesLimit = utils.GetEnvAsInt("RECO_MODULES_FOR_CATEGORIES_LIMIT", cfg.ModulesForCategoriesLimit, log)
	return cfg
}
