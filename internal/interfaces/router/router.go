package router

import (
	assetsvc "portfolio-backend/internal/application/assets"
	healthsvc "portfolio-backend/internal/application/health"
	holdsvc "portfolio-backend/internal/application/holdings"
	portsvc "portfolio-backend/internal/application/portfolios"
	txsvc "portfolio-backend/internal/application/transactions"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/infrastructure/database"
	assethandler "portfolio-backend/internal/interfaces/handlers/assets"
	healthhandler "portfolio-backend/internal/interfaces/handlers/health"
	holdhandler "portfolio-backend/internal/interfaces/handlers/holdings"
	porthandler "portfolio-backend/internal/interfaces/handlers/portfolios"
	txhandler "portfolio-backend/internal/interfaces/handlers/transactions"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateApp opens the database and Redis named by cfg, migrates the schema
// and returns the wired app. Redis is optional; without it no session resolves.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
	} else {
		log.Warn().Msg("REDIS_URL not set; sessions and health counters are disabled")
	}
	return Build(cfg, db, rdb), db, rdb, nil
}

// Build registers middleware and routes on a new app over existing connections.
func Build(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(recover.New())
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Session(rdb))

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             healthsvc.GormPinger{DB: db},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	api := app.Group("/api/v1",
		middleware.RequireAuth(),
		middleware.AuthorizePermission(constants.ViewData),
		middleware.Atomic(db),
	)

	ps := &portsvc.Service{DB: db, Currency: cfg.DisplayCurrency}
	ph := &porthandler.Handlers{Service: ps}
	txh := &txhandler.Handlers{Service: &txsvc.Service{DB: db}}
	pg := api.Group("/portfolios")
	pg.Get("/", ph.List)
	pg.Post("/", middleware.AuthorizePermission(constants.ManagePortfolios), ph.Create)
	pg.Get("/:id", ph.Get)
	// Routes bound to an existing portfolio leave role checks to the services,
	// so an out-of-host id answers 404 before any 403.
	pg.Patch("/:id", ph.Update)
	pg.Delete("/:id", ph.Delete)
	pg.Get("/:id/summary", ph.Summary)
	pg.Get("/:id/transactions", txh.List)
	pg.Post("/:id/transactions", txh.Admit)

	hdh := &holdhandler.Handlers{Service: &holdsvc.Service{DB: db}}
	hg := api.Group("/holdings")
	hg.Get("/", hdh.List)
	hg.Get("/:id", hdh.Get)

	ah := &assethandler.Handlers{Service: &assetsvc.Service{DB: db}}
	ag := api.Group("/assets")
	ag.Get("/", ah.List)
	ag.Get("/:id", ah.Get)
	ag.Post("/", middleware.AuthorizePermission(constants.ManageAssets), ah.Create)
	ag.Patch("/:id", middleware.AuthorizePermission(constants.ManageAssets), ah.Update)
	ag.Delete("/:id", middleware.AuthorizePermission(constants.ManageAssets), ah.Delete)

	return app
}
