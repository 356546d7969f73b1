package bootstrap

import (
	"os"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/interfaces/router"
	"portfolio-backend/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for the serverless entry point, which may not
// import internal packages directly.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.SetGlobalLogger(logger.New(logger.Config{Level: cfg.LogLevel, Out: os.Stdout}))
	app, _, _, err := router.CreateApp(cfg)
	return app, err
}
