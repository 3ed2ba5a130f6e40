package tokens

import (
	"time"

	"github.com/google/uuid"
)

// refreshTokenRow matches the column set returned by
// sp_get_user_refresh_tokens(user_id). The revoked flag is stored as a 0/1
// smallint; it leaves this package as a bool.
type refreshTokenRow struct {
	ID        uuid.UUID `gorm:"column:id"`
	UserID    uuid.UUID `gorm:"column:user_id"`
	Token     string    `gorm:"column:token"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
	Revoked   int16     `gorm:"column:revoked"`
	Context   string    `gorm:"column:context"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func tokenFromRow(row refreshTokenRow) RefreshTokenDTO {
	return RefreshTokenDTO{
		ID:        row.ID,
		UserID:    row.UserID,
		Token:     row.Token,
		ExpiresAt: row.ExpiresAt,
		Revoked:   row.Revoked != 0,
		Context:   row.Context,
		CreatedAt: row.CreatedAt,
	}
}

func tokensFromRows(rows []refreshTokenRow) []RefreshTokenDTO {
	out := make([]RefreshTokenDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, tokenFromRow(row))
	}
	return out
}
