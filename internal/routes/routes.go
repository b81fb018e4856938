package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hanan-raza/mini-revolut/internal/account"
	"github.com/hanan-raza/mini-revolut/internal/auth"
	"github.com/hanan-raza/mini-revolut/internal/config"
	"github.com/hanan-raza/mini-revolut/internal/identity"
	"github.com/hanan-raza/mini-revolut/internal/ledger"
	"github.com/hanan-raza/mini-revolut/internal/middleware"
	"github.com/hanan-raza/mini-revolut/internal/notification"
	"github.com/hanan-raza/mini-revolut/internal/payments"
	"github.com/hanan-raza/mini-revolut/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce infra presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	// Storage backends: Postgres in production, the in-memory ledger otherwise.
	var (
		accounts  account.Store
		log       ledger.Log
		transfers ledger.Transferer
		users     identity.Repository
	)
	if d.DB != nil {
		accounts = account.NewPostgresStore(d.DB)
		pgLedger := ledger.NewPostgresLedger(d.DB)
		log, transfers = pgLedger, pgLedger
		users = identity.NewPostgresRepository(d.DB)
	} else {
		mem := ledger.NewMemory()
		accounts, log, transfers = mem, mem, mem
		users = identity.NewMemoryRepository()
	}

	engine := ledger.NewEngine(accounts, log, transfers)
	idSvc := identity.NewService(users, accounts, d.Cfg.StartingBalance)
	tokenSvc := auth.NewService(d.Cfg)
	notifier := notification.NewLoggerNotifier(d.Logger)

	authHandler := auth.NewHandler(idSvc, tokenSvc, accounts)
	walletHandler := wallet.NewHandler(engine, wallet.NewService(users, accounts, log))
	transferHandler := payments.NewHandler(payments.NewService(engine, users, notifier))

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	protected := api.Group("", middleware.JWTAuth(tokenSvc, users))
	if d.Cache != nil {
		protected.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	RegisterWalletRoutes(protected, walletHandler)
	RegisterTransferRoutes(protected, transferHandler)

	return nil
}
