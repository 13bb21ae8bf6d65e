package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/verdantmarkets/carbonledger-backend/internal/balances"
	"github.com/verdantmarkets/carbonledger-backend/internal/companies"
	"github.com/verdantmarkets/carbonledger-backend/internal/users"
	"github.com/verdantmarkets/carbonledger-backend/pkg/config"
	"github.com/verdantmarkets/carbonledger-backend/pkg/db"
	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
	"github.com/verdantmarkets/carbonledger-backend/pkg/logger"
	"github.com/verdantmarkets/carbonledger-backend/pkg/migrate"
	"github.com/verdantmarkets/carbonledger-backend/pkg/security"
)

type seedCompany struct {
	name   string
	email  string
	carbon float64
	cash   float64
}

var seedCompanies = []seedCompany{
	{name: "Acme Corp", email: "trader@acme.example", carbon: 1000, cash: 500000},
	{name: "GreenWorks", email: "trader@greenworks.example", carbon: 800, cash: 300000},
}

const seedPassword = "changeme1"

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.App.IsProd() {
		logg.Error(ctx, "refusing to seed a production environment", nil)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	hash, err := security.HashPassword(seedPassword, cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to hash seed password", err)
		os.Exit(1)
	}

	for _, seed := range seedCompanies {
		if err := seedOne(ctx, dbClient, seed, hash); err != nil {
			logg.Error(logg.WithFields(ctx, map[string]any{"company": seed.name}), "seed failed", err)
			os.Exit(1)
		}
		logg.Info(logg.WithFields(ctx, map[string]any{"company": seed.name}), "company seeded")
	}
}

func seedOne(ctx context.Context, client *db.Client, seed seedCompany, passwordHash string) error {
	return client.WithTx(ctx, func(tx *gorm.DB) error {
		companyRepo := companies.NewRepository(tx)
		balanceRepo := balances.NewRepository(tx)
		userRepo := users.NewRepository(tx)

		existing, err := companyRepo.FindByName(ctx, seed.name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			return nil
		}

		company, err := companyRepo.Create(ctx, &models.Company{Name: seed.name})
		if err != nil {
			return err
		}

		if _, err := balanceRepo.Create(ctx, &models.Balance{
			CompanyID: company.ID,
			Carbon:    seed.carbon,
			Cash:      seed.cash,
		}); err != nil {
			return err
		}

		_, err = userRepo.Create(ctx, &models.User{
			Email:        seed.email,
			PasswordHash: passwordHash,
			CompanyID:    company.ID,
		})
		return err
	})
}
