package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is the canonical catalog listing. The storefront treats it as
// read-only; the merchandising pipeline owns writes.
type Product struct {
	ID                   uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string         `gorm:"column:name;not null"`
	Description          *string        `gorm:"column:description"`
	PriceCents           int            `gorm:"column:price_cents;not null"`
	DiscountedPriceCents *int           `gorm:"column:discounted_price_cents"`
	CategoryID           *uuid.UUID     `gorm:"column:category_id;type:uuid"`
	AvailableSizes       pq.StringArray `gorm:"column:available_sizes;type:text[];not null;default:ARRAY[]::text[]"`
	Features             pq.StringArray `gorm:"column:features;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive             bool           `gorm:"column:is_active;not null;default:true"`
	IsFeatured           bool           `gorm:"column:is_featured;not null;default:false"`
	AverageRating        *float64       `gorm:"column:average_rating;type:numeric(3,2)"`
	ReviewCount          *int           `gorm:"column:review_count"`
	Gender               string         `gorm:"column:gender;not null"`
	Tags                 pq.StringArray `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	URLSlug              string         `gorm:"column:url_slug;not null;uniqueIndex"`
	Category             *Category      `gorm:"foreignKey:CategoryID"`
	Variants             []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePriceCents applies the single effective-price rule used everywhere:
// discounted price when present, base price otherwise.
func (p Product) EffectivePriceCents() int {
	if p.DiscountedPriceCents != nil {
		return *p.DiscountedPriceCents
	}
	return p.PriceCents
}
