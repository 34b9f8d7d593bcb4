// @title         resumepay API
// @version       1.0
// @description   Заказы на оформление резюме: оплата через внешний checkout и выдача PDF после подтверждения платежа.
// @BasePath      /api/v1
// @schemes       http
// @host          localhost:8080
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "github.com/artem13815/resumepay/docs"

	// internal imports
	"github.com/artem13815/resumepay/api/http"
	"github.com/artem13815/resumepay/api/http/handlers"
	"github.com/artem13815/resumepay/pkg/config"
	"github.com/artem13815/resumepay/pkg/health"
	"github.com/artem13815/resumepay/pkg/health/checkers"
	"github.com/artem13815/resumepay/pkg/llm"
	"github.com/artem13815/resumepay/pkg/llm/openrouter"
	"github.com/artem13815/resumepay/pkg/logger"
	"github.com/artem13815/resumepay/pkg/metrics"
	"github.com/artem13815/resumepay/pkg/order"
	"github.com/artem13815/resumepay/pkg/payment"
	"github.com/artem13815/resumepay/pkg/payment/hosted"
	"github.com/artem13815/resumepay/pkg/payment/mock"
	"github.com/artem13815/resumepay/pkg/repository/memory"
	pgrepo "github.com/artem13815/resumepay/pkg/repository/postgres"
	redisrepo "github.com/artem13815/resumepay/pkg/repository/redis"
	"github.com/artem13815/resumepay/pkg/repository/sqlite"
	"github.com/artem13815/resumepay/pkg/resume"
	"github.com/artem13815/resumepay/pkg/storage/postgres"
	redisstore "github.com/artem13815/resumepay/pkg/storage/redis"
)

func main() {
	// Load configuration from env/.env
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, checks, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	provider, gateway := paymentProvider(cfg, log)
	m := metrics.New()
	ledger := order.NewService(store, provider,
		order.Pricing{Price: cfg.OrderPrice, Currency: cfg.OrderCurrency},
		log, order.WithObserver(m))

	if cfg.PaymentWebhookSecret == "" {
		log.Warn("PAYMENT_WEBHOOK_SECRET is empty, webhook signatures are not verified")
	}
	webhooks := handlers.NewWebhookHandler(ledger, cfg.PaymentWebhookSecret, log)

	// OpenRouter client for objective drafts; without a key the endpoint answers 503.
	var model llm.ChatModel
	if cfg.OpenRouterAPIKey != "" {
		model = openrouter.New(
			cfg.OpenRouterAPIKey,
			cfg.OpenRouterBase,
			cfg.OpenRouterModel,
			cfg.OpenRouterAppTitle,
			cfg.OpenRouterReferer,
		)
	}

	h := http.Handlers{
		Health:    handlers.NewHealthHandler(health.NewService(checks...)),
		Orders:    handlers.NewOrderHandler(ledger, order.CheckoutURLs{Success: cfg.CheckoutSuccessURL, Cancel: cfg.CheckoutCancelURL}, log),
		Webhooks:  webhooks,
		Objective: handlers.NewObjectiveHandler(resume.NewDraftService(model, cfg.OpenRouterModel), log),
		Metrics:   m.Handler(),
	}
	if gateway != nil {
		h.MockCheckout = handlers.NewMockCheckoutHandler(gateway, webhooks, log)
	}

	app := fiber.New(fiber.Config{
		AppName:               "resumepay",
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             2 << 20,
	})
	app.Use(recover.New())
	app.Use(requestLogger(log))
	app.Use(http.Observe(m))
	http.Register(app, h)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening",
			zap.String("port", cfg.Port),
			zap.String("store", cfg.Store),
			zap.String("payment_provider", cfg.PaymentProvider),
		)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

// openStore builds the order store selected by STORE plus the readiness
// checks for whatever it connects to.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (order.Store, []health.Checker, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL, int32(cfg.DBMaxConns))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		if err := pgrepo.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("postgres migrate: %w", err)
		}
		return pgrepo.NewOrderRepository(pool), []health.Checker{checkers.NewPostgresChecker(pool)}, pool.Close, nil
	case config.StoreRedis:
		rdb, err := redisstore.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("redis connect: %w", err)
		}
		closeFn := func() { _ = rdb.Close() }
		return redisrepo.NewOrderRepository(rdb, ""), []health.Checker{checkers.NewRedisChecker(rdb)}, closeFn, nil
	case config.StoreSQLite:
		repo, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("sqlite open: %w", err)
		}
		closeFn := func() { _ = repo.Close() }
		return repo, []health.Checker{checkers.NewPingChecker("sqlite", repo)}, closeFn, nil
	case config.StoreMemory:
		log.Warn("STORE=memory: orders are lost on restart")
		return memory.NewOrderRepository(), nil, func() {}, nil
	}
	return nil, nil, nil, errors.New("unknown store " + cfg.Store)
}

// paymentProvider returns nil when checkout is disabled. The mock gateway is
// returned separately so its completion route can be mounted.
func paymentProvider(cfg config.Config, log *zap.Logger) (payment.Provider, *mock.Gateway) {
	switch cfg.PaymentProvider {
	case config.PaymentHosted:
		return hosted.New(cfg.PaymentAPIKey, cfg.PaymentBaseURL, cfg.PaymentProviderName), nil
	case config.PaymentMock:
		log.Warn("PAYMENT_PROVIDER=mock: checkout sessions are simulated")
		gw := mock.New(cfg.PublicBaseURL)
		return gw, gw
	default:
		log.Warn("no payment provider configured, checkout disabled")
		return nil, nil
	}
}

func requestLogger(log *zap.Logger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("took", time.Since(start)),
		)
		return err
	}
}
