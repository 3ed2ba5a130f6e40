package auth

import (
	"github.com/angelmondragon/crewdeck-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	Role      enums.MemberRole
	JTI       string
}

// AccessTokenClaims represents the typed JWT consumed by the API. The token
// issuer lives outside this service; we only mint in tests and tooling.
type AccessTokenClaims struct {
	UserID    uuid.UUID        `json:"user_id"`
	CompanyID uuid.UUID        `json:"company_id"`
	Role      enums.MemberRole `json:"role"`
	jwt.RegisteredClaims
}
