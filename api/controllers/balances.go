package controllers

import (
	"net/http"

	"github.com/verdantmarkets/carbonledger-backend/api/responses"
	"github.com/verdantmarkets/carbonledger-backend/internal/balances"
	pkgerrors "github.com/verdantmarkets/carbonledger-backend/pkg/errors"
	"github.com/verdantmarkets/carbonledger-backend/pkg/logger"
)

// BalanceShow returns the carbon and cash holdings of the caller's company.
func BalanceShow(svc balances.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "balance service unavailable"))
			return
		}

		companyID, err := actorCompany(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		balance, err := svc.Get(ctx, companyID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, balance)
	}
}
