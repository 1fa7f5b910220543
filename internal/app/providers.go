package app

import (
	"go.uber.org/zap"
	"notifycenter/internal/center"
	"notifycenter/internal/config"
	"notifycenter/internal/dismiss"
)

// NewCenter builds the single process-wide center.
func NewCenter(cfg *config.Config) *center.Center {
	return center.New(center.WithMaxActive(cfg.MaxActive))
}

func NewDismissScheduler(c *center.Center, logger *zap.Logger) *dismiss.Scheduler {
	return dismiss.New(c, logger.Named("dismiss"))
}
