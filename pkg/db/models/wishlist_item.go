package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem links a user to a saved product variant.
type WishlistItem struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index:wishlist_items_user_id_idx;uniqueIndex:wishlist_items_user_variant_key"`
	ProductVariantID uuid.UUID      `gorm:"column:product_variant_id;type:uuid;not null;uniqueIndex:wishlist_items_user_variant_key"`
	Variant          ProductVariant `gorm:"foreignKey:ProductVariantID"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
}
