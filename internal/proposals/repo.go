package proposals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
	"github.com/verdantmarkets/carbonledger-backend/pkg/enums"
)

// Repository defines persistence operations for trade proposals.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, proposal *models.Proposal) (*models.Proposal, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	ListByRequestor(ctx context.Context, companyID uuid.UUID) ([]models.Proposal, error)
	ListPendingByTarget(ctx context.Context, companyID uuid.UUID) ([]models.Proposal, error)
	ListOverduePending(ctx context.Context, cutoff time.Time) ([]models.Proposal, error)
	ListOverduePendingByTarget(ctx context.Context, companyID uuid.UUID, cutoff time.Time) ([]models.Proposal, error)
	UpdateIfPending(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	DeleteIfPending(ctx context.Context, id uuid.UUID) (int64, error)
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status enums.ProposalStatus) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a proposals repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, proposal *models.Proposal) (*models.Proposal, error) {
	if err := r.db.WithContext(ctx).Create(proposal).Error; err != nil {
		return nil, err
	}
	return proposal, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *repository) ListByRequestor(ctx context.Context, companyID uuid.UUID) ([]models.Proposal, error) {
	var out []models.Proposal
	err := r.db.WithContext(ctx).
		Where("requestor_company_id = ?", companyID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListPendingByTarget returns the company's inbox in arrival order.
func (r *repository) ListPendingByTarget(ctx context.Context, companyID uuid.UUID) ([]models.Proposal, error) {
	var out []models.Proposal
	err := r.db.WithContext(ctx).
		Where("target_company_id = ? AND status = ?", companyID, enums.ProposalStatusPending).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListOverduePending(ctx context.Context, cutoff time.Time) ([]models.Proposal, error) {
	var out []models.Proposal
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at <= ?", enums.ProposalStatusPending, cutoff).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListOverduePendingByTarget(ctx context.Context, companyID uuid.UUID, cutoff time.Time) ([]models.Proposal, error) {
	var out []models.Proposal
	err := r.db.WithContext(ctx).
		Where("target_company_id = ? AND status = ? AND created_at <= ?", companyID, enums.ProposalStatusPending, cutoff).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateIfPending amends the proposal only while it is still PENDING, so a
// decision committing between the caller's read and this write cannot be
// overwritten. Zero rows affected means the proposal was decided or deleted
// in the meantime.
func (r *repository) UpdateIfPending(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("id = ? AND status = ?", id, enums.ProposalStatusPending).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// DeleteIfPending withdraws the proposal under the same still-PENDING guard
// as UpdateIfPending.
func (r *repository) DeleteIfPending(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, enums.ProposalStatusPending).
		Delete(&models.Proposal{})
	return result.RowsAffected, result.Error
}

// UpdateStatusIfPending flips the proposal status only while it is still
// PENDING. The returned row count is the caller's signal that it won the
// race against a concurrent decision on the same proposal.
func (r *repository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status enums.ProposalStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("id = ? AND status = ?", id, enums.ProposalStatusPending).
		Update("status", status)
	return result.RowsAffected, result.Error
}
