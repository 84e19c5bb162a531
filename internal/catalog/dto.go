package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
)

// CategoryDTO is the navigation payload for a catalog category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	URLSlug     string    `json:"url_slug"`
	Description *string   `json:"description,omitempty"`
}

// ProductDTO is the catalog product payload returned to clients.
type ProductDTO struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Description          *string   `json:"description,omitempty"`
	PriceCents           int       `json:"price_cents"`
	DiscountedPriceCents *int      `json:"discounted_price_cents,omitempty"`
	EffectivePriceCents  int       `json:"effective_price_cents"`
	AvailableSizes       []string  `json:"available_sizes"`
	Features             []string  `json:"features,omitempty"`
	IsFeatured           bool      `json:"is_featured"`
	AverageRating        *float64  `json:"average_rating,omitempty"`
	ReviewCount          *int      `json:"review_count,omitempty"`
	Gender               string    `json:"gender"`
	Tags                 []string  `json:"tags,omitempty"`
	URLSlug              string    `json:"url_slug"`
	Category             *CategoryDTO `json:"category,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// VariantDTO is a color variant card with its owning product flattened in.
type VariantDTO struct {
	ID        uuid.UUID  `json:"id"`
	Color     string     `json:"color"`
	ImageURLs []string   `json:"image_urls"`
	Product   ProductDTO `json:"product"`
	CreatedAt time.Time  `json:"created_at"`
}

// ProductDetailDTO is the product page payload with every color variant.
type ProductDetailDTO struct {
	ProductDTO
	Variants []VariantSummaryDTO `json:"variants"`
}

// VariantSummaryDTO lists a sibling variant on the product page.
type VariantSummaryDTO struct {
	ID        uuid.UUID `json:"id"`
	Color     string    `json:"color"`
	ImageURLs []string  `json:"image_urls"`
}

// FacetsDTO summarizes the filter options available for a listing.
type FacetsDTO struct {
	Colors        []string `json:"colors"`
	Sizes         []string `json:"sizes"`
	MinPriceCents int      `json:"min_price_cents"`
	MaxPriceCents int      `json:"max_price_cents"`
}

// BrowseResultDTO is one page of variant cards plus the next cursor.
type BrowseResultDTO struct {
	Variants   []VariantDTO `json:"variants"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

// NewCategoryDTO builds the category payload.
func NewCategoryDTO(category *models.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		URLSlug:     category.URLSlug,
		Description: category.Description,
	}
}

// NewProductDTO builds the product payload from the persisted model.
func NewProductDTO(product *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:                   product.ID,
		Name:                 product.Name,
		Description:          product.Description,
		PriceCents:           product.PriceCents,
		DiscountedPriceCents: product.DiscountedPriceCents,
		EffectivePriceCents:  product.EffectivePriceCents(),
		AvailableSizes:       append([]string{}, product.AvailableSizes...),
		Features:             append([]string{}, product.Features...),
		IsFeatured:           product.IsFeatured,
		AverageRating:        product.AverageRating,
		ReviewCount:          product.ReviewCount,
		Gender:               product.Gender,
		Tags:                 append([]string{}, product.Tags...),
		URLSlug:              product.URLSlug,
		CreatedAt:            product.CreatedAt,
	}
	if product.Category != nil {
		dto.Category = NewCategoryDTO(product.Category)
	}
	return dto
}

// NewVariantDTO builds the variant card payload. The owning product must be
// preloaded on the model.
func NewVariantDTO(variant *models.ProductVariant) VariantDTO {
	return VariantDTO{
		ID:        variant.ID,
		Color:     variant.Color,
		ImageURLs: append([]string{}, variant.ImageURLs...),
		Product:   NewProductDTO(&variant.Product),
		CreatedAt: variant.CreatedAt,
	}
}

// NewProductDetailDTO builds the product page payload.
func NewProductDetailDTO(product *models.Product) *ProductDetailDTO {
	dto := &ProductDetailDTO{ProductDTO: NewProductDTO(product)}
	dto.Variants = make([]VariantSummaryDTO, len(product.Variants))
	for i, variant := range product.Variants {
		dto.Variants[i] = VariantSummaryDTO{
			ID:        variant.ID,
			Color:     variant.Color,
			ImageURLs: append([]string{}, variant.ImageURLs...),
		}
	}
	return dto
}
