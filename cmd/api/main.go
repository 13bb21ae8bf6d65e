package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/verdantmarkets/carbonledger-backend/api/routes"
	"github.com/verdantmarkets/carbonledger-backend/internal/auth"
	"github.com/verdantmarkets/carbonledger-backend/internal/balances"
	"github.com/verdantmarkets/carbonledger-backend/internal/companies"
	"github.com/verdantmarkets/carbonledger-backend/internal/inbox"
	"github.com/verdantmarkets/carbonledger-backend/internal/proposals"
	"github.com/verdantmarkets/carbonledger-backend/internal/settlement"
	"github.com/verdantmarkets/carbonledger-backend/internal/users"
	"github.com/verdantmarkets/carbonledger-backend/pkg/auth/session"
	"github.com/verdantmarkets/carbonledger-backend/pkg/config"
	"github.com/verdantmarkets/carbonledger-backend/pkg/db"
	"github.com/verdantmarkets/carbonledger-backend/pkg/logger"
	"github.com/verdantmarkets/carbonledger-backend/pkg/metrics"
	"github.com/verdantmarkets/carbonledger-backend/pkg/migrate"
	"github.com/verdantmarkets/carbonledger-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	companyRepo := companies.NewRepository(dbClient.DB())
	userRepo := users.NewRepository(dbClient.DB())
	balanceRepo := balances.NewRepository(dbClient.DB())
	proposalRepo := proposals.NewRepository(dbClient.DB())
	inboxRepo := inbox.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		TradingConfig:  cfg.Trading,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	balanceService, err := balances.NewService(balanceRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create balance service", err)
		os.Exit(1)
	}

	proposalService, err := proposals.NewService(proposalRepo, inboxRepo, companyRepo, dbClient, cfg.Trading.OverdueThreshold)
	if err != nil {
		logg.Error(context.Background(), "failed to create proposal service", err)
		os.Exit(1)
	}

	settlementMetrics := metrics.NewSettlementMetrics(prometheus.DefaultRegisterer)
	settlementService, err := settlement.NewService(proposalRepo, balanceRepo, dbClient, settlementMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement service", err)
		os.Exit(1)
	}

	inboxService, err := inbox.NewService(inboxRepo, proposalRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inbox service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			authService,
			registerService,
			balanceService,
			proposalService,
			settlementService,
			inboxService,
			companyRepo,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
