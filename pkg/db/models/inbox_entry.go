package models

import (
	"time"

	"github.com/google/uuid"
)

// InboxEntry is display bookkeeping for the target company's inbox, one per
// proposal. Never consulted for settlement decisions.
type InboxEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProposalID uuid.UUID `gorm:"column:proposal_id;type:uuid;not null;uniqueIndex" json:"proposal_id"`
	Viewed     bool      `gorm:"column:viewed;not null;default:false" json:"viewed"`
	Overdue    bool      `gorm:"column:overdue;not null;default:false" json:"overdue"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
