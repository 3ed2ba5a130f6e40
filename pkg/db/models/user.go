package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewdeck-backend/pkg/enums"
)

// User represents the canonical identity entity. Company-scoped permissions
// live on Membership; Role here is only the global default captured at invite
// time.
type User struct {
	ID                  uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email               string           `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash        string           `gorm:"column:password_hash;not null"`
	FirstName           string           `gorm:"column:first_name;not null"`
	LastName            string           `gorm:"column:last_name;not null"`
	Phone               *string          `gorm:"column:phone"`
	Role                enums.MemberRole `gorm:"column:role;type:member_role;not null"`
	DefaultMembershipID *uuid.UUID       `gorm:"column:default_membership_id;type:uuid"`
	CreatedAt           time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
