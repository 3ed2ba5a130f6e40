package directory

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewdeck-backend/pkg/db/models"
	"github.com/angelmondragon/crewdeck-backend/pkg/enums"
)

// Actor is the authenticated caller identity attached to each request.
// Role is the caller's role within CompanyID, not a global role.
type Actor struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	Role      enums.MemberRole
}

// UserView merges a user's profile with their company-scoped membership role.
type UserView struct {
	ID           uuid.UUID        `json:"id"`
	MembershipID uuid.UUID        `json:"membership_id"`
	CompanyID    uuid.UUID        `json:"company_id"`
	Email        string           `json:"email"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Phone        *string          `json:"phone,omitempty"`
	Role         enums.MemberRole `json:"role"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// InviteUserInput captures the data required to invite a user into a company.
type InviteUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
	Role      enums.MemberRole
}

// UpdateUserInput carries a partial profile update. Pointer fields are
// applied only when non-nil; Phone additionally distinguishes "clear the
// value" (PhoneSet with nil Phone) from "leave it alone".
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	PhoneSet  bool
	Password  *string
	Role      *enums.MemberRole
}

func mergedView(user *models.User, membership *models.Membership) *UserView {
	if user == nil || membership == nil {
		return nil
	}

	var phone *string
	if user.Phone != nil {
		p := *user.Phone
		phone = &p
	}

	return &UserView{
		ID:           user.ID,
		MembershipID: membership.ID,
		CompanyID:    membership.CompanyID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Phone:        phone,
		Role:         membership.Role,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
