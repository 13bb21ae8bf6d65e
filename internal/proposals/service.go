package proposals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/verdantmarkets/carbonledger-backend/internal/inbox"
	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
	"github.com/verdantmarkets/carbonledger-backend/pkg/enums"
	pkgerrors "github.com/verdantmarkets/carbonledger-backend/pkg/errors"
)

const maxReasonLength = 500

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type companyFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

// Service manages the lifecycle of trade proposals up to the point a
// decision is taken on them.
type Service interface {
	Create(ctx context.Context, actorCompanyID uuid.UUID, input CreateInput) (*models.Proposal, error)
	Get(ctx context.Context, actorCompanyID, proposalID uuid.UUID) (*models.Proposal, error)
	ListMine(ctx context.Context, actorCompanyID uuid.UUID) ([]Summary, error)
	ListReceived(ctx context.Context, actorCompanyID uuid.UUID) ([]Summary, error)
	Update(ctx context.Context, actorCompanyID, proposalID uuid.UUID, input UpdateInput) (*models.Proposal, error)
	Delete(ctx context.Context, actorCompanyID, proposalID uuid.UUID) error
	Alerts(ctx context.Context, actorCompanyID uuid.UUID) ([]Alert, error)
}

type service struct {
	repo      Repository
	inbox     inbox.Repository
	companies companyFinder
	tx        txRunner
	threshold time.Duration
	now       func() time.Time
}

// NewService builds a proposals service with the required dependencies.
func NewService(repo Repository, inboxRepo inbox.Repository, companies companyFinder, tx txRunner, overdueThreshold time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("proposals repository required")
	}
	if inboxRepo == nil {
		return nil, fmt.Errorf("inbox repository required")
	}
	if companies == nil {
		return nil, fmt.Errorf("company finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if overdueThreshold <= 0 {
		return nil, fmt.Errorf("overdue threshold must be positive")
	}
	return &service{
		repo:      repo,
		inbox:     inboxRepo,
		companies: companies,
		tx:        tx,
		threshold: overdueThreshold,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Create(ctx context.Context, actorCompanyID uuid.UUID, input CreateInput) (*models.Proposal, error) {
	if actorCompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company identity missing")
	}
	if input.TargetCompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target company id required")
	}
	if input.TargetCompanyID == actorCompanyID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot propose a trade with your own company")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trade kind must be BUY or SELL")
	}
	if input.UnitPrice <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if len(input.Reason) > maxReasonLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason too long")
	}

	if _, err := s.companies.FindByID(ctx, input.TargetCompanyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "target company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load target company")
	}

	proposal := &models.Proposal{
		ID:                 uuid.New(),
		RequestorCompanyID: actorCompanyID,
		TargetCompanyID:    input.TargetCompanyID,
		Kind:               input.Kind,
		UnitPrice:          input.UnitPrice,
		Quantity:           input.Quantity,
		Reason:             strings.TrimSpace(input.Reason),
		Status:             enums.ProposalStatusPending,
		CreatedAt:          s.now(),
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, proposal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create proposal")
		}
		entry := &models.InboxEntry{
			ID:         uuid.New(),
			ProposalID: proposal.ID,
			CreatedAt:  proposal.CreatedAt,
		}
		if _, err := s.inbox.WithTx(tx).Create(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inbox entry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return proposal, nil
}

func (s *service) Get(ctx context.Context, actorCompanyID, proposalID uuid.UUID) (*models.Proposal, error) {
	proposal, err := s.load(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.RequestorCompanyID != actorCompanyID && proposal.TargetCompanyID != actorCompanyID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "proposal does not involve company")
	}
	return proposal, nil
}

func (s *service) ListMine(ctx context.Context, actorCompanyID uuid.UUID) ([]Summary, error) {
	if actorCompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company identity missing")
	}
	rows, err := s.repo.ListByRequestor(ctx, actorCompanyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list proposals")
	}
	return summarize(rows), nil
}

func (s *service) ListReceived(ctx context.Context, actorCompanyID uuid.UUID) ([]Summary, error) {
	if actorCompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company identity missing")
	}
	rows, err := s.repo.ListPendingByTarget(ctx, actorCompanyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list received proposals")
	}
	return summarize(rows), nil
}

func (s *service) Update(ctx context.Context, actorCompanyID, proposalID uuid.UUID, input UpdateInput) (*models.Proposal, error) {
	proposal, err := s.load(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.RequestorCompanyID != actorCompanyID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the requestor may amend a proposal")
	}
	if proposal.Status != enums.ProposalStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending proposals can be amended")
	}

	updates := map[string]any{}
	if input.TargetCompanyID != nil {
		if *input.TargetCompanyID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "target company id required")
		}
		if *input.TargetCompanyID == actorCompanyID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot propose a trade with your own company")
		}
		if _, err := s.companies.FindByID(ctx, *input.TargetCompanyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "target company not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load target company")
		}
		updates["target_company_id"] = *input.TargetCompanyID
		proposal.TargetCompanyID = *input.TargetCompanyID
	}
	if input.Kind != nil {
		if !input.Kind.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "trade kind must be BUY or SELL")
		}
		updates["kind"] = *input.Kind
		proposal.Kind = *input.Kind
	}
	if input.UnitPrice != nil {
		if *input.UnitPrice <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
		}
		updates["unit_price"] = *input.UnitPrice
		proposal.UnitPrice = *input.UnitPrice
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		updates["quantity"] = *input.Quantity
		proposal.Quantity = *input.Quantity
	}
	if input.Reason != nil {
		if len(*input.Reason) > maxReasonLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason too long")
		}
		trimmed := strings.TrimSpace(*input.Reason)
		updates["reason"] = trimmed
		proposal.Reason = trimmed
	}
	if len(updates) == 0 {
		return proposal, nil
	}

	affected, err := s.repo.UpdateIfPending(ctx, proposal.ID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update proposal")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending proposals can be amended")
	}
	return proposal, nil
}

func (s *service) Delete(ctx context.Context, actorCompanyID, proposalID uuid.UUID) error {
	proposal, err := s.load(ctx, proposalID)
	if err != nil {
		return err
	}
	if proposal.RequestorCompanyID != actorCompanyID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the requestor may withdraw a proposal")
	}
	if proposal.Status != enums.ProposalStatusPending {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending proposals can be withdrawn")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.repo.WithTx(tx).DeleteIfPending(ctx, proposal.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete proposal")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending proposals can be withdrawn")
		}
		if err := s.inbox.WithTx(tx).DeleteByProposalID(ctx, proposal.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inbox entry")
		}
		return nil
	})
}

func (s *service) Alerts(ctx context.Context, actorCompanyID uuid.UUID) ([]Alert, error) {
	if actorCompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company identity missing")
	}
	now := s.now()
	rows, err := s.repo.ListOverduePendingByTarget(ctx, actorCompanyID, now.Add(-s.threshold))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list overdue proposals")
	}
	alerts := make([]Alert, 0, len(rows))
	for _, row := range rows {
		alerts = append(alerts, Alert{
			ProposalID: row.ID,
			Kind:       row.Kind,
			UnitPrice:  row.UnitPrice,
			Quantity:   row.Quantity,
			CreatedAt:  row.CreatedAt,
			WaitingFor: now.Sub(row.CreatedAt).Truncate(time.Minute).String(),
		})
	}
	return alerts, nil
}

func (s *service) load(ctx context.Context, proposalID uuid.UUID) (*models.Proposal, error) {
	if proposalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "proposal id required")
	}
	proposal, err := s.repo.FindByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "proposal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load proposal")
	}
	return proposal, nil
}

func summarize(rows []models.Proposal) []Summary {
	out := make([]Summary, 0, len(rows))
	for _, row := range rows {
		out = append(out, Summary{
			ID:                 row.ID,
			RequestorCompanyID: row.RequestorCompanyID,
			TargetCompanyID:    row.TargetCompanyID,
			Kind:               row.Kind,
			UnitPrice:          row.UnitPrice,
			Quantity:           row.Quantity,
			Total:              proposalTotal(row),
			Reason:             row.Reason,
			Status:             row.Status,
			CreatedAt:          row.CreatedAt,
		})
	}
	return out
}

// proposalTotal computes price*quantity in decimal space so list totals match
// what settlement will actually move.
func proposalTotal(row models.Proposal) float64 {
	total, _ := decimal.NewFromFloat(row.UnitPrice).
		Mul(decimal.NewFromFloat(row.Quantity)).
		Float64()
	return total
}
