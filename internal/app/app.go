package app

import (
	"gsefl-backend/internal/accounts"
	"gsefl-backend/internal/config"
	"gsefl-backend/internal/database"
	"gsefl-backend/internal/health"
	"gsefl-backend/internal/leaderboard"
	"gsefl-backend/internal/marketdata"
	"gsefl-backend/internal/middleware"
	"gsefl-backend/internal/portfolio"
	"gsefl-backend/internal/settlement"
	"gsefl-backend/internal/stocks"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all global middleware and route
// registration. The DB and Redis handles are returned so cmd/api can ping
// them at startup and close them at shutdown.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	// Redis is optional: without it the leaderboard recomputes on every request.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
	}

	healthHandlers := &health.Handlers{DB: &gormDBPinger{db: db}, Rdb: rdb}
	app.Get("/health/json", healthHandlers.JSON)

	stocksHandlers := &stocks.Handlers{Service: &stocks.Service{DB: db}}
	app.Get("/api/v1/stocks", stocksHandlers.ListStocks)

	accountService := &accounts.Service{DB: db, StartingBalance: cfg.StartingBalance}
	accountHandlers := &accounts.Handlers{Service: accountService}
	accountGroup := app.Group("/api/v1/accounts")
	accountGroup.Post("/", accountHandlers.CreateAccount)
	accountGroup.Get("/:id", accountHandlers.GetAccount)

	portfolioHandlers := &portfolio.Handlers{Service: &portfolio.Service{DB: db}}
	accountGroup.Get("/:id/holdings", portfolioHandlers.GetHoldings)
	accountGroup.Get("/:id/transactions", portfolioHandlers.GetTransactions)

	settlementHandlers := &settlement.Handlers{Service: &settlement.Service{DB: db}}
	tradeGroup := app.Group("/api/v1/trades")
	tradeGroup.Post("/buy", settlementHandlers.Buy)
	tradeGroup.Post("/sell", settlementHandlers.Sell)

	leaderboardHandlers := &leaderboard.Handlers{Service: &leaderboard.Service{
		DB:       db,
		Rdb:      rdb,
		CacheTTL: cfg.LeaderboardCacheTTL,
	}}
	app.Get("/api/v1/leaderboard", leaderboardHandlers.GetLeaderboard)

	syncHandlers := &marketdata.Handlers{
		Service:  &marketdata.Service{DB: db, Feed: &marketdata.HTTPFeed{BaseURL: cfg.FeedBaseURL}},
		AdminKey: cfg.SyncAdminKey,
	}
	app.Post("/api/v1/market/admin-sync", syncHandlers.AdminSync)

	return app, db, rdb, nil
}
