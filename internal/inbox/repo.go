package inbox

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
)

// Repository defines persistence operations for proposal inbox entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.InboxEntry) (*models.InboxEntry, error)
	FindByProposalID(ctx context.Context, proposalID uuid.UUID) (*models.InboxEntry, error)
	DeleteByProposalID(ctx context.Context, proposalID uuid.UUID) error
	MarkViewed(ctx context.Context, proposalID uuid.UUID) error
	SetOverdueByProposalIDs(ctx context.Context, proposalIDs []uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inbox repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.InboxEntry) (*models.InboxEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) FindByProposalID(ctx context.Context, proposalID uuid.UUID) (*models.InboxEntry, error) {
	var entry models.InboxEntry
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) DeleteByProposalID(ctx context.Context, proposalID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Delete(&models.InboxEntry{}).Error
}

func (r *repository) MarkViewed(ctx context.Context, proposalID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.InboxEntry{}).
		Where("proposal_id = ?", proposalID).
		Update("viewed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SetOverdueByProposalIDs(ctx context.Context, proposalIDs []uuid.UUID) (int64, error) {
	if len(proposalIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.InboxEntry{}).
		Where("proposal_id IN ? AND overdue = ?", proposalIDs, false).
		Update("overdue", true)
	return result.RowsAffected, result.Error
}
