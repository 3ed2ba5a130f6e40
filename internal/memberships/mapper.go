package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewdeck-backend/pkg/enums"
)

// companyUserRow matches the column set returned by
// sp_get_user_memberships(company_id). The function returns a flat typed row
// set; any driver-level nesting is resolved here, before rows reach callers.
type companyUserRow struct {
	MembershipID        uuid.UUID        `gorm:"column:membership_id"`
	MembershipRole      enums.MemberRole `gorm:"column:membership_role"`
	MembershipCreatedAt time.Time        `gorm:"column:membership_created_at"`
	UserID              uuid.UUID        `gorm:"column:user_id"`
	Email               string           `gorm:"column:email"`
	FirstName           string           `gorm:"column:first_name"`
	LastName            string           `gorm:"column:last_name"`
	Phone               *string          `gorm:"column:phone"`
	UserCreatedAt       time.Time        `gorm:"column:user_created_at"`
	UserUpdatedAt       time.Time        `gorm:"column:user_updated_at"`
}

func companyUserFromRow(companyID uuid.UUID, row companyUserRow) CompanyUserDTO {
	return CompanyUserDTO{
		MembershipID: row.MembershipID,
		CompanyID:    companyID,
		UserID:       row.UserID,
		Email:        row.Email,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Phone:        copyStringPointer(row.Phone),
		Role:         row.MembershipRole,
		JoinedAt:     row.MembershipCreatedAt,
		UserSince:    row.UserCreatedAt,
		UpdatedAt:    row.UserUpdatedAt,
	}
}

func companyUsersFromRows(companyID uuid.UUID, rows []companyUserRow) []CompanyUserDTO {
	out := make([]CompanyUserDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, companyUserFromRow(companyID, row))
	}
	return out
}

func copyStringPointer(src *string) *string {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
