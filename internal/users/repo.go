package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
)

// UpsertParams carries the profile fields a sign-in provider reports.
type UpsertParams struct {
	Email      string
	Name       string
	AvatarURL  *string
	Provider   string
	ProviderID string
}

// Repository encapsulates user persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads the user row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertByEmail creates the user on first sign-in or refreshes the profile on
// a repeat sign-in. Keying on email keeps one row per person no matter which
// provider they arrive through, and the single statement avoids a
// find-then-create race between concurrent sign-ins.
func (r *Repository) UpsertByEmail(ctx context.Context, params UpsertParams) (*models.User, error) {
	if params.Email == "" {
		return nil, gorm.ErrInvalidValue
	}

	var user models.User
	err := r.db.WithContext(ctx).
		Raw(`
INSERT INTO users (email, name, avatar_url, provider, provider_id, last_login_at)
VALUES (?, ?, ?, ?, ?, now())
ON CONFLICT (email)
DO UPDATE SET name = EXCLUDED.name,
              avatar_url = COALESCE(EXCLUDED.avatar_url, users.avatar_url),
              provider = EXCLUDED.provider,
              provider_id = EXCLUDED.provider_id,
              last_login_at = now(),
              updated_at = now()
RETURNING *`,
			params.Email, params.Name, params.AvatarURL, params.Provider, params.ProviderID).
		Scan(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
