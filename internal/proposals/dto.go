package proposals

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdantmarkets/carbonledger-backend/pkg/enums"
)

// CreateInput carries the fields a requestor supplies when opening a proposal.
type CreateInput struct {
	TargetCompanyID uuid.UUID
	Kind            enums.TradeKind
	UnitPrice       float64
	Quantity        float64
	Reason          string
}

// UpdateInput carries the fields a requestor may amend while a proposal is
// still pending. Nil fields are left untouched.
type UpdateInput struct {
	TargetCompanyID *uuid.UUID
	Kind            *enums.TradeKind
	UnitPrice       *float64
	Quantity        *float64
	Reason          *string
}

// Summary exposes the proposal fields returned by list endpoints.
type Summary struct {
	ID                 uuid.UUID            `json:"id"`
	RequestorCompanyID uuid.UUID            `json:"requestor_company_id"`
	TargetCompanyID    uuid.UUID            `json:"target_company_id"`
	Kind               enums.TradeKind      `json:"kind"`
	UnitPrice          float64              `json:"unit_price"`
	Quantity           float64              `json:"quantity"`
	Total              float64              `json:"total"`
	Reason             string               `json:"reason,omitempty"`
	Status             enums.ProposalStatus `json:"status"`
	CreatedAt          time.Time            `json:"created_at"`
}

// Alert flags a pending proposal that has been waiting past the overdue
// threshold.
type Alert struct {
	ProposalID uuid.UUID       `json:"proposal_id"`
	Kind       enums.TradeKind `json:"kind"`
	UnitPrice  float64         `json:"unit_price"`
	Quantity   float64         `json:"quantity"`
	CreatedAt  time.Time       `json:"created_at"`
	WaitingFor string          `json:"waiting_for"`
}
