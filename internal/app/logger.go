package app

import (
	"github.com/rs/zerolog/log"

	"github.com/guttosm/packgenius/config"
	"github.com/guttosm/packgenius/internal/logger"
)

// InitializeLogger configures the global zerolog logger from cfg.
func InitializeLogger(cfg config.LogConfig) {
	logger.Init(cfg.Level, cfg.Pretty)
	log.Debug().
		Str("level", cfg.Level).
		Bool("pretty", cfg.Pretty).
		Msg("Logger initialized")
}
