package controllers

import (
	"net/http"

	"github.com/verdantmarkets/carbonledger-backend/api/responses"
	"github.com/verdantmarkets/carbonledger-backend/internal/proposals"
	pkgerrors "github.com/verdantmarkets/carbonledger-backend/pkg/errors"
	"github.com/verdantmarkets/carbonledger-backend/pkg/logger"
)

// AlertsList returns the proposals that have been waiting on the caller's
// decision past the overdue threshold.
func AlertsList(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
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

		alerts, err := svc.Alerts(ctx, companyID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, alerts)
	}
}
