package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a user's cart. The (user, variant, size) triple is
// unique at the store layer so concurrent adds collapse into one row.
type CartItem struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index:cart_items_user_id_idx;uniqueIndex:cart_items_user_variant_size_key"`
	ProductVariantID uuid.UUID      `gorm:"column:product_variant_id;type:uuid;not null;uniqueIndex:cart_items_user_variant_size_key"`
	SelectedSize     string         `gorm:"column:selected_size;not null;uniqueIndex:cart_items_user_variant_size_key"`
	Quantity         int            `gorm:"column:quantity;not null"`
	Variant          ProductVariant `gorm:"foreignKey:ProductVariantID"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
