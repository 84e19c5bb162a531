package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
)

// Repository encapsulates cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// UpsertItem adds quantity to the user's (variant, size) line, creating it on
// first add. The unique index makes concurrent adds collapse into one row with
// the summed quantity instead of racing a read-then-write.
func (r *Repository) UpsertItem(ctx context.Context, userID, variantID uuid.UUID, selectedSize string, quantity int) (*models.CartItem, error) {
	if userID == uuid.Nil || variantID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}

	var item models.CartItem
	err := r.db.WithContext(ctx).
		Raw(`
INSERT INTO cart_items (user_id, product_variant_id, selected_size, quantity)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, product_variant_id, selected_size)
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
              updated_at = now()
RETURNING *`,
			userID, variantID, selectedSize, quantity).
		Scan(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SetItemQuantity overwrites the quantity on one of the user's cart lines.
// Returns gorm.ErrRecordNotFound when the line does not belong to the user.
func (r *Repository) SetItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", quantity)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var item models.CartItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem deletes one cart line scoped to the owning user. Removing a line
// that is already gone is not an error.
func (r *Repository) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{}).
		Error
}

// ListItems returns the user's cart lines newest-first with variants and
// products preloaded.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
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

// ClearCart removes every cart line for the user.
func (r *Repository) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).
		Error
}
