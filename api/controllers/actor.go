package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/verdantmarkets/carbonledger-backend/api/middleware"
	pkgerrors "github.com/verdantmarkets/carbonledger-backend/pkg/errors"
)

// actorCompany resolves the authenticated company from the request context.
func actorCompany(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.CompanyIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid company id")
	}
	return id, nil
}
