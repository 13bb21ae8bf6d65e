package balances

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
	pkgerrors "github.com/verdantmarkets/carbonledger-backend/pkg/errors"
)

// Service exposes read access to a company's carbon and cash holdings.
type Service interface {
	Get(ctx context.Context, companyID uuid.UUID) (*models.Balance, error)
}

type service struct {
	repo Repository
}

// NewService builds a balances service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("balances repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, companyID uuid.UUID) (*models.Balance, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id required")
	}
	balance, err := s.repo.FindByCompanyID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "balance not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load balance")
	}
	return balance, nil
}
