package models

import (
	"time"

	"github.com/google/uuid"
)

// Balance holds a company's carbon and cash positions. Exactly one row per
// company. Both fields stay non-negative at every commit point; only the
// settlement path mutates them.
type Balance struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null;uniqueIndex" json:"company_id"`
	Carbon    float64   `gorm:"column:carbon;not null;default:0" json:"carbon"`
	Cash      float64   `gorm:"column:cash;not null;default:0" json:"cash"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
