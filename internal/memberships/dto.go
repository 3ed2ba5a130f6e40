package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewdeck-backend/pkg/db/models"
	"github.com/angelmondragon/crewdeck-backend/pkg/enums"
)

// MembershipDTO is the transport shape for a raw membership record.
type MembershipDTO struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	CompanyID uuid.UUID        `json:"company_id"`
	Role      enums.MemberRole `json:"role"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// CompanyUserDTO mixes membership metadata with the associated user profile.
// Role is always the company-scoped membership role, never the user's global
// default.
type CompanyUserDTO struct {
	MembershipID uuid.UUID        `json:"membership_id"`
	CompanyID    uuid.UUID        `json:"company_id"`
	UserID       uuid.UUID        `json:"user_id"`
	Email        string           `json:"email"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Phone        *string          `json:"phone,omitempty"`
	Role         enums.MemberRole `json:"role"`
	JoinedAt     time.Time        `json:"joined_at"`
	UserSince    time.Time        `json:"user_since"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ToDTO converts a model to the external DTO.
func ToDTO(m *models.Membership) *MembershipDTO {
	if m == nil {
		return nil
	}

	return &MembershipDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		CompanyID: m.CompanyID,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
