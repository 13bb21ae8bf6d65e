package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantmarkets/carbonledger-backend/internal/inbox"
	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
	"github.com/verdantmarkets/carbonledger-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type overduePendingReader interface {
	ListOverduePending(ctx context.Context, cutoff time.Time) ([]models.Proposal, error)
}

// OverdueJobParams configure the sweep that flags stale pending proposals.
type OverdueJobParams struct {
	Logger    *logger.Logger
	DB        txRunner
	Proposals overduePendingReader
	Inbox     inbox.Repository
	Threshold time.Duration
}

// NewOverdueJob builds the cron job that marks inbox entries whose proposals
// have sat undecided past the threshold.
func NewOverdueJob(params OverdueJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Proposals == nil {
		return nil, fmt.Errorf("proposals reader required")
	}
	if params.Inbox == nil {
		return nil, fmt.Errorf("inbox stamper required")
	}
	if params.Threshold <= 0 {
		return nil, fmt.Errorf("threshold must be positive")
	}
	return &overdueJob{
		logg:      params.Logger,
		db:        params.DB,
		proposals: params.Proposals,
		inbox:     params.Inbox,
		threshold: params.Threshold,
		now:       time.Now,
	}, nil
}

type overdueJob struct {
	logg      *logger.Logger
	db        txRunner
	proposals overduePendingReader
	inbox     inbox.Repository
	threshold time.Duration
	now       func() time.Time
}

func (j *overdueJob) Name() string { return "proposal-overdue" }

func (j *overdueJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.threshold)
	stale, err := j.proposals.ListOverduePending(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query overdue proposals: %w", err)
	}
	if len(stale) == 0 {
		j.logg.Info(ctx, "no overdue proposals")
		return nil
	}

	ids := make([]uuid.UUID, 0, len(stale))
	for _, proposal := range stale {
		ids = append(ids, proposal.ID)
	}

	var stamped int64
	err = j.db.WithTx(ctx, func(tx *gorm.DB) error {
		count, err := j.inbox.WithTx(tx).SetOverdueByProposalIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("stamp overdue entries: %w", err)
		}
		stamped = count
		return nil
	})
	if err != nil {
		return err
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"overdue": len(ids),
		"stamped": stamped,
	})
	j.logg.Info(logCtx, "overdue sweep complete")
	return nil
}
