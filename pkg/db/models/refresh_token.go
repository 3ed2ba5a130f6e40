package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is written by the token issuer; this service only reads token
// metadata and cascade-deletes rows when their owning user is removed.
// Revoked is stored as a 0/1 smallint; callers outside the data layer see a
// bool.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Token     string    `gorm:"column:token;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	Revoked   int16     `gorm:"column:revoked;type:smallint;not null;default:0"`
	Context   string    `gorm:"column:context"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
