package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdantmarkets/carbonledger-backend/pkg/enums"
)

// Proposal is one offer to trade carbon for cash between two companies. Terms
// are mutable only while the proposal is pending; once decided the row is an
// append-only record of what was agreed.
type Proposal struct {
	ID                 uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestorCompanyID uuid.UUID            `gorm:"column:requestor_company_id;type:uuid;not null;index" json:"requestor_company_id"`
	TargetCompanyID    uuid.UUID            `gorm:"column:target_company_id;type:uuid;not null;index" json:"target_company_id"`
	Kind               enums.TradeKind      `gorm:"column:kind;type:text;not null" json:"kind"`
	UnitPrice          float64              `gorm:"column:unit_price;not null" json:"unit_price"`
	Quantity           float64              `gorm:"column:quantity;not null" json:"quantity"`
	Reason             string               `gorm:"column:reason;type:text;not null" json:"reason"`
	Status             enums.ProposalStatus `gorm:"column:status;type:text;not null;default:'PENDING';index" json:"status"`
	CreatedAt          time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Proposal) TableName() string {
	return "trade_proposals"
}
