package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProductVariant is a color split of a product. Price, sizes, and copy live
// on the owning product.
type ProductVariant struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID      `gorm:"column:product_id;type:uuid;not null;index"`
	Color     string         `gorm:"column:color;not null"`
	ImageURLs pq.StringArray `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]"`
	Product   Product        `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
