package users

import (
	"context"

	"github.com/angelmondragon/crewdeck-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetDefaultMembership records the membership a user entered the system
// through. Only fills an empty back-reference; an existing value wins.
func (r *Repository) SetDefaultMembership(ctx context.Context, userID, membershipID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND default_membership_id IS NULL", userID).
		UpdateColumn("default_membership_id", membershipID).Error
}

// UpdateProfileTx applies a partial column update inside the provided
// transaction and reports how many rows it touched.
func (r *Repository) UpdateProfileTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, cols map[string]any) (int64, error) {
	if len(cols) == 0 {
		return 0, nil
	}
	res := tx.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(cols)
	return res.RowsAffected, res.Error
}

// DeleteTx removes the user row inside the provided transaction.
func (r *Repository) DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return tx.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}
