package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdantmarkets/carbonledger-backend/pkg/db/models"
)

// UserDTO is the public shape of a user returned by the API.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	CompanyID   uuid.UUID  `json:"company_id"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FromModel converts the persistence model into its API shape.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		CompanyID:   user.CompanyID,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
