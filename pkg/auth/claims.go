package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload carries the identity baked into a freshly minted token.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	JTI       string
}

// AccessTokenClaims is the JWT claim set used by the platform. The company id
// is what downstream authorization compares against; the core never performs
// authentication itself.
type AccessTokenClaims struct {
	UserID    uuid.UUID `json:"uid"`
	CompanyID uuid.UUID `json:"cid"`
	jwt.RegisteredClaims
}
