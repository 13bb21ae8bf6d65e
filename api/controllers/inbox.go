package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verdantmarkets/carbonledger-backend/api/responses"
	"github.com/verdantmarkets/carbonledger-backend/internal/inbox"
	pkgerrors "github.com/verdantmarkets/carbonledger-backend/pkg/errors"
	"github.com/verdantmarkets/carbonledger-backend/pkg/logger"
)

// InboxMarkViewed flags the inbox entry for a proposal as seen by its target.
func InboxMarkViewed(svc inbox.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inbox service unavailable"))
			return
		}

		companyID, err := actorCompany(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "proposalId"))
		if raw == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "proposal id is required"))
			return
		}
		proposalID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid proposal id"))
			return
		}

		if err := svc.MarkViewed(ctx, proposalID, companyID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"viewed": true})
	}
}

// InboxEntryShow returns the viewed/overdue state tracked for a proposal.
func InboxEntryShow(svc inbox.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inbox service unavailable"))
			return
		}

		companyID, err := actorCompany(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "proposalId"))
		if raw == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "proposal id is required"))
			return
		}
		proposalID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid proposal id"))
			return
		}

		entry, err := svc.Entry(ctx, proposalID, companyID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, entry)
	}
}
