package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/verdantmarkets/carbonledger-backend/internal/balances"
	"github.com/verdantmarkets/carbonledger-backend/internal/proposals"
	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
	"github.com/verdantmarkets/carbonledger-backend/pkg/enums"
	pkgerrors "github.com/verdantmarkets/carbonledger-backend/pkg/errors"
	"github.com/verdantmarkets/carbonledger-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// DecideInput carries the data required to settle or reject a proposal.
type DecideInput struct {
	ProposalID     uuid.UUID
	ActorCompanyID uuid.UUID
	Decision       enums.TradeDecision
}

// Service applies trade decisions. An ACCEPT moves carbon and cash between
// the two companies; a REJECT only closes the proposal. Either way the
// proposal reaches a terminal status exactly once.
type Service interface {
	Decide(ctx context.Context, input DecideInput) (*models.Proposal, error)
}

type service struct {
	proposals proposals.Repository
	balances  balances.Repository
	tx        txRunner
	metrics   *metrics.SettlementMetrics
}

// NewService builds a settlement service with the required dependencies.
func NewService(proposalRepo proposals.Repository, balanceRepo balances.Repository, tx txRunner, m *metrics.SettlementMetrics) (Service, error) {
	if proposalRepo == nil {
		return nil, fmt.Errorf("proposals repository required")
	}
	if balanceRepo == nil {
		return nil, fmt.Errorf("balances repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		proposals: proposalRepo,
		balances:  balanceRepo,
		tx:        tx,
		metrics:   m,
	}, nil
}

func (s *service) Decide(ctx context.Context, input DecideInput) (*models.Proposal, error) {
	if input.ProposalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "proposal id required")
	}
	if input.ActorCompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company identity missing")
	}
	if !input.Decision.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decision must be ACCEPT or REJECT")
	}

	var settled *models.Proposal
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		proposalRepo := s.proposals.WithTx(tx)
		balanceRepo := s.balances.WithTx(tx)

		proposal, err := proposalRepo.FindByID(ctx, input.ProposalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "proposal not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load proposal")
		}
		if proposal.TargetCompanyID != input.ActorCompanyID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the targeted company may decide a proposal")
		}
		if proposal.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeAlreadyProcessed, "proposal already decided")
		}

		targetStatus := enums.ProposalStatusRejected
		if input.Decision == enums.TradeDecisionAccept {
			targetStatus = enums.ProposalStatusAccepted
		}

		// Conditional status flip is the serialization point: of two
		// concurrent decisions on the same proposal only one update
		// matches the PENDING row.
		affected, err := proposalRepo.UpdateStatusIfPending(ctx, proposal.ID, targetStatus)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update proposal status")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeAlreadyProcessed, "proposal already decided")
		}
		proposal.Status = targetStatus

		if input.Decision == enums.TradeDecisionAccept {
			if err := s.transfer(ctx, balanceRepo, proposal); err != nil {
				return err
			}
		}

		settled = proposal
		return nil
	})
	s.record(input.Decision, err)
	if err != nil {
		return nil, err
	}
	return settled, nil
}

// transfer moves quantity tonnes of carbon from the seller to the buyer and
// unit_price*quantity cash the other way. Any returned error rolls back the
// enclosing transaction, including the status flip.
func (s *service) transfer(ctx context.Context, balanceRepo balances.Repository, proposal *models.Proposal) error {
	buyerID, sellerID := tradeParties(proposal)

	sellerBalance, err := loadBalance(ctx, balanceRepo, sellerID, "seller")
	if err != nil {
		return err
	}
	buyerBalance, err := loadBalance(ctx, balanceRepo, buyerID, "buyer")
	if err != nil {
		return err
	}

	quantity := decimal.NewFromFloat(proposal.Quantity)
	total := decimal.NewFromFloat(proposal.UnitPrice).Mul(quantity)

	// seller stock is checked before buyer funds
	if decimal.NewFromFloat(sellerBalance.Carbon).LessThan(quantity) {
		return pkgerrors.New(pkgerrors.CodeInsufficientCarbon, "seller lacks carbon to cover the trade")
	}
	if decimal.NewFromFloat(buyerBalance.Cash).LessThan(total) {
		return pkgerrors.New(pkgerrors.CodeInsufficientCash, "buyer lacks cash to cover the trade")
	}

	totalCash, _ := total.Float64()
	if err := balanceRepo.ApplyDelta(ctx, sellerID, -proposal.Quantity, totalCash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit seller")
	}
	if err := balanceRepo.ApplyDelta(ctx, buyerID, proposal.Quantity, -totalCash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit buyer")
	}
	return nil
}

// tradeParties maps the proposal kind onto buyer/seller roles. On a BUY the
// requestor is buying carbon from the target; on a SELL the requestor is
// selling carbon to the target.
func tradeParties(proposal *models.Proposal) (buyerID, sellerID uuid.UUID) {
	if proposal.Kind == enums.TradeKindBuy {
		return proposal.RequestorCompanyID, proposal.TargetCompanyID
	}
	return proposal.TargetCompanyID, proposal.RequestorCompanyID
}

func loadBalance(ctx context.Context, repo balances.Repository, companyID uuid.UUID, role string) (*models.Balance, error) {
	balance, err := repo.FindByCompanyID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, role+" balance not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+role+" balance")
	}
	return balance, nil
}

func (s *service) record(decision enums.TradeDecision, err error) {
	switch {
	case err == nil && decision == enums.TradeDecisionAccept:
		s.metrics.IncDecision("accepted")
	case err == nil:
		s.metrics.IncDecision("rejected")
	case pkgerrors.HasCode(err, pkgerrors.CodeInsufficientCarbon):
		s.metrics.IncDecision("insufficient_carbon")
	case pkgerrors.HasCode(err, pkgerrors.CodeInsufficientCash):
		s.metrics.IncDecision("insufficient_cash")
	case pkgerrors.HasCode(err, pkgerrors.CodeAlreadyProcessed):
		s.metrics.IncDecision("conflict")
	}
}
