package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the identity of a trading party. Immutable once created; the
// unique name is enforced at registration time.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
