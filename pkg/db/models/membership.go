package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewdeck-backend/pkg/enums"
)

// MembershipUniqueConstraint is the composite uniqueness constraint on
// (user_id, company_id).
const MembershipUniqueConstraint = "memberships_user_id_company_id_key"

// Membership links a user with a company and captures their role there.
// At most one membership exists per (user, company) pair.
type Membership struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:memberships_user_id_company_id_key"`
	CompanyID uuid.UUID        `gorm:"column:company_id;type:uuid;not null;uniqueIndex:memberships_user_id_company_id_key"`
	Role      enums.MemberRole `gorm:"column:role;type:member_role;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
