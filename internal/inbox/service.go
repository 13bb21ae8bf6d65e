package inbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
	pkgerrors "github.com/verdantmarkets/carbonledger-backend/pkg/errors"
)

type proposalFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
}

// Service tracks which incoming proposals a company has looked at.
type Service interface {
	MarkViewed(ctx context.Context, proposalID, actorCompanyID uuid.UUID) error
	Entry(ctx context.Context, proposalID, actorCompanyID uuid.UUID) (*models.InboxEntry, error)
}

type service struct {
	repo      Repository
	proposals proposalFinder
}

// NewService builds an inbox service with the required dependencies.
func NewService(repo Repository, proposals proposalFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inbox repository required")
	}
	if proposals == nil {
		return nil, fmt.Errorf("proposal finder required")
	}
	return &service{repo: repo, proposals: proposals}, nil
}

func (s *service) MarkViewed(ctx context.Context, proposalID, actorCompanyID uuid.UUID) error {
	proposal, err := s.loadForTarget(ctx, proposalID, actorCompanyID)
	if err != nil {
		return err
	}
	if err := s.repo.MarkViewed(ctx, proposal.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inbox entry not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark inbox entry viewed")
	}
	return nil
}

func (s *service) Entry(ctx context.Context, proposalID, actorCompanyID uuid.UUID) (*models.InboxEntry, error) {
	proposal, err := s.loadForTarget(ctx, proposalID, actorCompanyID)
	if err != nil {
		return nil, err
	}
	entry, err := s.repo.FindByProposalID(ctx, proposal.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inbox entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inbox entry")
	}
	return entry, nil
}

func (s *service) loadForTarget(ctx context.Context, proposalID, actorCompanyID uuid.UUID) (*models.Proposal, error) {
	if proposalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "proposal id required")
	}
	if actorCompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company identity missing")
	}
	proposal, err := s.proposals.FindByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "proposal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load proposal")
	}
	if proposal.TargetCompanyID != actorCompanyID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "proposal not addressed to company")
	}
	return proposal, nil
}
