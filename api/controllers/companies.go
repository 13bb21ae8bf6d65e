package controllers

import (
	"context"
	"net/http"

	"github.com/verdantmarkets/carbonledger-backend/api/responses"
	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
	pkgerrors "github.com/verdantmarkets/carbonledger-backend/pkg/errors"
	"github.com/verdantmarkets/carbonledger-backend/pkg/logger"
)

type companyLister interface {
	List(ctx context.Context) ([]models.Company, error)
}

// CompaniesList returns every registered company so callers can pick a
// counterparty for a proposal.
func CompaniesList(repo companyLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if repo == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company repository unavailable"))
			return
		}

		companies, err := repo.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list companies"))
			return
		}

		responses.WriteSuccess(w, companies)
	}
}
