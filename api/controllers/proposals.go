package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verdantmarkets/carbonledger-backend/api/responses"
	"github.com/verdantmarkets/carbonledger-backend/api/validators"
	"github.com/verdantmarkets/carbonledger-backend/internal/proposals"
	"github.com/verdantmarkets/carbonledger-backend/internal/settlement"
	"github.com/verdantmarkets/carbonledger-backend/pkg/enums"
	pkgerrors "github.com/verdantmarkets/carbonledger-backend/pkg/errors"
	"github.com/verdantmarkets/carbonledger-backend/pkg/logger"
)

type proposalCreatePayload struct {
	TargetCompanyID string  `json:"target_company_id" validate:"required"`
	Kind            string  `json:"kind" validate:"required"`
	UnitPrice       float64 `json:"unit_price" validate:"required,gt=0"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	Reason          string  `json:"reason"`
}

type proposalUpdatePayload struct {
	TargetCompanyID *string  `json:"target_company_id"`
	Kind            *string  `json:"kind"`
	UnitPrice       *float64 `json:"unit_price"`
	Quantity        *float64 `json:"quantity"`
	Reason          *string  `json:"reason"`
}

type proposalDecisionPayload struct {
	Decision string `json:"decision" validate:"required"`
}

func proposalIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "proposalId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "proposal id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid proposal id")
	}
	return id, nil
}

// ProposalCreate files a new trade proposal against another company.
func ProposalCreate(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "proposal service unavailable"))
			return
		}

		companyID, err := actorCompany(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body proposalCreatePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		targetID, err := uuid.Parse(strings.TrimSpace(body.TargetCompanyID))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid target company id"))
			return
		}

		kind, err := enums.ParseTradeKind(body.Kind)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid trade kind"))
			return
		}

		proposal, err := svc.Create(ctx, companyID, proposals.CreateInput{
			TargetCompanyID: targetID,
			Kind:            kind,
			UnitPrice:       body.UnitPrice,
			Quantity:        body.Quantity,
			Reason:          body.Reason,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, proposal)
	}
}

// ProposalListMine returns the proposals the caller's company has filed.
func ProposalListMine(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "proposal service unavailable"))
			return
		}

		companyID, err := actorCompany(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListMine(ctx, companyID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// ProposalListReceived returns the pending proposals waiting on the caller,
// oldest first.
func ProposalListReceived(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "proposal service unavailable"))
			return
		}

		companyID, err := actorCompany(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListReceived(ctx, companyID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// ProposalShow returns a single proposal the caller is party to.
func ProposalShow(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "proposal service unavailable"))
			return
		}

		companyID, err := actorCompany(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		proposalID, err := proposalIDFromPath(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		proposal, err := svc.Get(ctx, companyID, proposalID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, proposal)
	}
}

// ProposalUpdate amends a pending proposal the caller filed.
func ProposalUpdate(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "proposal service unavailable"))
			return
		}

		companyID, err := actorCompany(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		proposalID, err := proposalIDFromPath(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body proposalUpdatePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := proposals.UpdateInput{
			UnitPrice: body.UnitPrice,
			Quantity:  body.Quantity,
			Reason:    body.Reason,
		}
		if body.TargetCompanyID != nil {
			targetID, err := uuid.Parse(strings.TrimSpace(*body.TargetCompanyID))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid target company id"))
				return
			}
			input.TargetCompanyID = &targetID
		}
		if body.Kind != nil {
			kind, err := enums.ParseTradeKind(*body.Kind)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid trade kind"))
				return
			}
			input.Kind = &kind
		}

		proposal, err := svc.Update(ctx, companyID, proposalID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, proposal)
	}
}

// ProposalDelete withdraws a pending proposal the caller filed.
func ProposalDelete(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "proposal service unavailable"))
			return
		}

		companyID, err := actorCompany(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		proposalID, err := proposalIDFromPath(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, companyID, proposalID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// ProposalDecide settles or rejects a pending proposal addressed to the caller.
func ProposalDecide(svc settlement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement service unavailable"))
			return
		}

		companyID, err := actorCompany(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		proposalID, err := proposalIDFromPath(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body proposalDecisionPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		decision, err := enums.ParseTradeDecision(body.Decision)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid decision"))
			return
		}

		proposal, err := svc.Decide(ctx, settlement.DecideInput{
			ProposalID:     proposalID,
			ActorCompanyID: companyID,
			Decision:       decision,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, proposal)
	}
}
