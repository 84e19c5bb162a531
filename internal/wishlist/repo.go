package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a wishlist entry and ignores duplicates, so saving the same
// variant twice concurrently still yields one row.
func (r *Repository) AddItem(ctx context.Context, userID, variantID uuid.UUID) error {
	if userID == uuid.Nil || variantID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlist_items (user_id, product_variant_id) VALUES (?, ?) ON CONFLICT (user_id, product_variant_id) DO NOTHING`, userID, variantID).
		Error
}

// RemoveItem deletes the entry scoped to the owning user. Removing an entry
// that is already gone is not an error.
func (r *Repository) RemoveItem(ctx context.Context, userID, entryID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.WishlistItem{}).
		Error
}

// RemoveByVariant deletes the entry for a variant regardless of entry id.
func (r *Repository) RemoveByVariant(ctx context.Context, userID, variantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_variant_id = ?", userID, variantID).
		Delete(&models.WishlistItem{}).
		Error
}

// ListItems returns the user's saved variants newest-first with products
// preloaded.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.WithContext(ctx).
		Preload("Variant").
		Preload("Variant.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
