package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant entity. The directory service only references it by
// id; company lifecycle is managed elsewhere.
type Company struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
