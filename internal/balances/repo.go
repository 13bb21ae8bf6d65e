package balances

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
)

// Repository defines persistence operations for company balances.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, balance *models.Balance) (*models.Balance, error)
	FindByCompanyID(ctx context.Context, companyID uuid.UUID) (*models.Balance, error)
	ApplyDelta(ctx context.Context, companyID uuid.UUID, dCarbon, dCash float64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a balances repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, balance *models.Balance) (*models.Balance, error) {
	if err := r.db.WithContext(ctx).Create(balance).Error; err != nil {
		return nil, err
	}
	return balance, nil
}

func (r *repository) FindByCompanyID(ctx context.Context, companyID uuid.UUID) (*models.Balance, error) {
	var balance models.Balance
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// ApplyDelta adjusts both ledger fields in a single UPDATE so the write stays
// atomic relative to the surrounding transaction.
func (r *repository) ApplyDelta(ctx context.Context, companyID uuid.UUID, dCarbon, dCash float64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Balance{}).
		Where("company_id = ?", companyID).
		Updates(map[string]any{
			"carbon":     gorm.Expr("carbon + ?", dCarbon),
			"cash":       gorm.Expr("cash + ?", dCash),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
