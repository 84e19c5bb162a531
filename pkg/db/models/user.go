package models

import (
	"time"

	"github.com/google/uuid"
)

// User is created on first OAuth sign-in and keyed by email so repeated
// sign-ins through either provider resolve to one row.
type User struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email       string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	Name        string     `gorm:"column:name;not null"`
	AvatarURL   *string    `gorm:"column:avatar_url"`
	Provider    string     `gorm:"column:provider;not null"`
	ProviderID  string     `gorm:"column:provider_id;not null"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
