package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/coinharbor/coinharbor/internal/admin"
	"github.com/coinharbor/coinharbor/internal/balance"
	"github.com/coinharbor/coinharbor/internal/config"
	"github.com/coinharbor/coinharbor/internal/funding"
	"github.com/coinharbor/coinharbor/internal/ledger"
	"github.com/coinharbor/coinharbor/internal/middleware"
	"github.com/coinharbor/coinharbor/internal/notification"
	"github.com/coinharbor/coinharbor/internal/stats"
	"github.com/coinharbor/coinharbor/internal/transaction"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Without a database
// or Redis the service falls back to in-memory backends, which only dev-mode
// configuration permits.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Storage backends
	var (
		transactions transaction.Store
		balances     balance.Store
	)
	if d.DB != nil {
		transactions = transaction.NewPostgresStore(d.DB)
		balances = balance.NewPostgresStore(d.DB)
	} else {
		transactions = transaction.NewMemoryStore()
		balances = balance.NewMemoryStore()
	}

	var statsCache stats.Cache
	if d.Cache != nil {
		statsCache = stats.NewRedisCache(d.Cache, d.Cfg.StatsTTL)
	} else {
		statsCache = stats.NewMemoryCache()
	}

	// Services and handlers
	notifier := notification.NewLoggerNotifier(d.Logger)
	engine := ledger.NewEngine(transactions, balances, statsCache, notifier, d.Logger)
	fundingSvc := funding.NewService(transactions, balances)
	adminSvc := admin.NewService(engine, transactions, statsCache)

	fundingHandler := funding.NewHandler(fundingSvc)
	adminHandler := admin.NewHandler(adminSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterFundingRoutes(api, fundingHandler)

	adminGroup := api.Group("/admin", middleware.AdminKey(d.Cfg.AdminKeyHash))
	RegisterAdminRoutes(adminGroup, adminHandler)

	return nil
}
