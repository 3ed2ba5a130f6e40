package memberships

import (
	"context"
	"fmt"

	"github.com/angelmondragon/crewdeck-backend/pkg/db/models"
	"github.com/angelmondragon/crewdeck-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetMembership retrieves a membership by user and company.
func (r *Repository) GetMembership(ctx context.Context, userID, companyID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND company_id = ?", userID, companyID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// CreateMembership persists a new membership record. Duplicate (user, company)
// pairs surface as a unique-constraint violation from storage.
func (r *Repository) CreateMembership(ctx context.Context, companyID, userID uuid.UUID, role enums.MemberRole) (*models.Membership, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid member role %q", role)
	}

	membership := &models.Membership{
		ID:        uuid.New(),
		CompanyID: companyID,
		UserID:    userID,
		Role:      role,
	}

	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// ListCompanyUsers returns the company's memberships joined with user
// metadata, via the sp_get_user_memberships row-set call.
func (r *Repository) ListCompanyUsers(ctx context.Context, companyID uuid.UUID) ([]CompanyUserDTO, error) {
	var rows []companyUserRow
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM sp_get_user_memberships(?)", companyID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return companyUsersFromRows(companyID, rows), nil
}

// UpdateRoleTx changes a membership's role inside the provided transaction
// and reports how many rows it touched.
func (r *Repository) UpdateRoleTx(ctx context.Context, tx *gorm.DB, membershipID uuid.UUID, role enums.MemberRole) (int64, error) {
	if !role.IsValid() {
		return 0, fmt.Errorf("invalid member role %q", role)
	}
	res := tx.WithContext(ctx).
		Model(&models.Membership{}).
		Where("id = ?", membershipID).
		Updates(map[string]any{"role": role})
	return res.RowsAffected, res.Error
}

// DeleteMembershipTx removes the membership row inside the provided
// transaction and reports how many rows it touched.
func (r *Repository) DeleteMembershipTx(ctx context.Context, tx *gorm.DB, membershipID uuid.UUID) (int64, error) {
	res := tx.WithContext(ctx).Delete(&models.Membership{}, "id = ?", membershipID)
	return res.RowsAffected, res.Error
}

// CountUserMembershipsTx counts memberships held by the user across all
// companies, inside the provided transaction.
func (r *Repository) CountUserMembershipsTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
