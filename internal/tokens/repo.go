package tokens

import (
	"context"

	"github.com/angelmondragon/crewdeck-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads refresh token metadata. Token issuance happens elsewhere;
// this service only lists rows and cascade-deletes them when the owning user
// is removed.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListForUser returns the user's refresh tokens via the
// sp_get_user_refresh_tokens row-set call, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]RefreshTokenDTO, error) {
	var rows []refreshTokenRow
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM sp_get_user_refresh_tokens(?)", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return tokensFromRows(rows), nil
}

// DeleteForUserTx removes every refresh token owned by the user, inside the
// provided transaction.
func (r *Repository) DeleteForUserTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	return tx.WithContext(ctx).Delete(&models.RefreshToken{}, "user_id = ?", userID).Error
}
