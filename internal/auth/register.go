package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantmarkets/carbonledger-backend/internal/balances"
	"github.com/verdantmarkets/carbonledger-backend/internal/companies"
	"github.com/verdantmarkets/carbonledger-backend/internal/users"
	"github.com/verdantmarkets/carbonledger-backend/pkg/config"
	"github.com/verdantmarkets/carbonledger-backend/pkg/db"
	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
	pkgerrors "github.com/verdantmarkets/carbonledger-backend/pkg/errors"
	"github.com/verdantmarkets/carbonledger-backend/pkg/security"
)

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
	TradingConfig  config.TradingConfig
}

type registerService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
	tradingCfg  config.TradingConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
		tradingCfg:  params.TradingConfig,
	}, nil
}

// Register creates the company, its opening balance, and the first user in a
// single transaction.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	companyName := strings.TrimSpace(req.CompanyName)
	if companyName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
	}
	if err := security.ValidatePolicy(req.Password, s.tradingCfg.PasswordMinLength); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "password rejected")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var result RegisterResponse
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		companyRepo := companies.NewRepository(tx)
		balanceRepo := balances.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		if _, err := companyRepo.FindByName(ctx, companyName); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "company name already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check company name")
		}

		now := time.Now().UTC()
		company, err := companyRepo.Create(ctx, &models.Company{
			ID:        uuid.New(),
			Name:      companyName,
			CreatedAt: now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create company")
		}

		if _, err := balanceRepo.Create(ctx, &models.Balance{
			ID:        uuid.New(),
			CompanyID: company.ID,
			Carbon:    s.tradingCfg.StartingCarbon,
			Cash:      s.tradingCfg.StartingCash,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create opening balance")
		}

		user, err := userRepo.Create(ctx, &models.User{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: passwordHash,
			CompanyID:    company.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		result = RegisterResponse{CompanyID: company.ID, UserID: user.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
