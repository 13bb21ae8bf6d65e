package companies

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
)

// Repository defines persistence operations for companies.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, company *models.Company) (*models.Company, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	FindByName(ctx context.Context, name string) (*models.Company, error)
	List(ctx context.Context) ([]models.Company, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a companies repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repository) List(ctx context.Context) ([]models.Company, error) {
	var out []models.Company
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
