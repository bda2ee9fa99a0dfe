package app

import (
	"time"

	"github.com/learnloop/learnloop-backend/internal/platform/logger"
	"github.com/learnloop/learnloop-backend/internal/utils"
)

type Config struct {
	Port string
	// GraphSyncInterval drives the periodic projection run; 0 disables it
	// and leaves only the manual admin endpoint.
	GraphSyncInterval time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	syncSeconds := utils.GetEnvAsInt("GRAPH_SYNC_INTERVAL", 300, log)
	return Config{
		Port:              port,
		GraphSyncInterval: time.Duration(syncSeconds) * time.Second,
	}
}
