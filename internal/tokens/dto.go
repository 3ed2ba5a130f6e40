package tokens

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenDTO is the management view of an issued refresh token.
type RefreshTokenDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	Context   string    `json:"context"`
	CreatedAt time.Time `json:"created_at"`
}
