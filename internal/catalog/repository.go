package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
	"github.com/lmorales-dev/vestra-backend/pkg/pagination"
)

// ListInput selects which slice of the catalog a browse query loads.
type ListInput struct {
	CategorySlug string
	Query        string
	FeaturedOnly bool
	Cursor       *pagination.Cursor
	Limit        int
}

// ListResult is one page of variants plus the cursor for the next page.
type ListResult struct {
	Variants   []models.ProductVariant
	NextCursor *string
}

// FacetSummary reports the filter options present in a listing scope.
type FacetSummary struct {
	Colors        []string
	Sizes         []string
	MinPriceCents int
	MaxPriceCents int
}

// Repository wires together catalog read queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// activeVariants scopes every read to variants of active products with the
// owning product and its category preloaded.
func (r *Repository) activeVariants(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Joins("JOIN products ON products.id = product_variants.product_id").
		Where("products.is_active = ?", true).
		Preload("Product").
		Preload("Product.Category")
}

// ListVariants pages through variant cards newest-first. A trailing buffer row
// signals whether another page exists.
func (r *Repository) ListVariants(ctx context.Context, input ListInput) (*ListResult, error) {
	limit := pagination.NormalizeLimit(input.Limit)

	query := r.activeVariants(ctx)
	if input.CategorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.url_slug = ?", input.CategorySlug)
	}
	if term := strings.TrimSpace(input.Query); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(products.name) LIKE ? OR EXISTS (SELECT 1 FROM unnest(products.tags) AS tag WHERE LOWER(tag) LIKE ?)",
			pattern, pattern,
		)
	}
	if input.FeaturedOnly {
		query = query.Where("products.is_featured = ?", true)
	}
	if input.Cursor != nil {
		query = query.Where(
			"(product_variants.created_at, product_variants.id) < (?, ?)",
			input.Cursor.CreatedAt, input.Cursor.ID,
		)
	}

	var variants []models.ProductVariant
	err := query.
		Order("product_variants.created_at DESC, product_variants.id DESC").
		Limit(limit + 1).
		Find(&variants).Error
	if err != nil {
		return nil, err
	}

	result := &ListResult{Variants: variants}
	if len(variants) > limit {
		result.Variants = variants[:limit]
		last := result.Variants[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

// GetProductBySlug loads one active product with its variants for the detail page.
func (r *Repository) GetProductBySlug(ctx context.Context, urlSlug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_variants.created_at ASC")
		}).
		First(&product, "url_slug = ? AND is_active = ?", urlSlug, true).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetVariant loads one variant with its product.
func (r *Repository) GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		First(&variant, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// ListVariantsByIDs loads the given variants. Missing ids are silently
// dropped; callers that care compare lengths.
func (r *Repository) ListVariantsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProductVariant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var variants []models.ProductVariant
	err := r.activeVariants(ctx).
		Where("product_variants.id IN ?", ids).
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}

// ListStylePool loads the candidate variants a styling request draws from:
// same gender as the focal product, excluding its own category.
func (r *Repository) ListStylePool(ctx context.Context, gender string, excludeCategoryID *uuid.UUID, limit int) ([]models.ProductVariant, error) {
	query := r.activeVariants(ctx).Where("products.gender = ?", gender)
	if excludeCategoryID != nil {
		query = query.Where("products.category_id IS NULL OR products.category_id <> ?", *excludeCategoryID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var variants []models.ProductVariant
	if err := query.Order("product_variants.created_at DESC").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

const facetQuery = `
SELECT
  COALESCE(MIN(COALESCE(p.discounted_price_cents, p.price_cents)), 0) AS min_price_cents,
  COALESCE(MAX(COALESCE(p.discounted_price_cents, p.price_cents)), 0) AS max_price_cents
FROM products p
WHERE p.is_active = true
  AND (? = '' OR p.category_id IN (SELECT c.id FROM categories c WHERE c.url_slug = ?))
`

// Facets reports the distinct colors, sizes, and effective price bounds for a
// listing scope. An empty slug means the whole catalog.
func (r *Repository) Facets(ctx context.Context, categorySlug string) (*FacetSummary, error) {
	summary := &FacetSummary{}

	var bounds struct {
		MinPriceCents int
		MaxPriceCents int
	}
	err := r.db.WithContext(ctx).
		Raw(facetQuery, categorySlug, categorySlug).
		Scan(&bounds).Error
	if err != nil {
		return nil, err
	}
	summary.MinPriceCents = bounds.MinPriceCents
	summary.MaxPriceCents = bounds.MaxPriceCents

	err = r.db.WithContext(ctx).Raw(`
SELECT DISTINCT pv.color
FROM product_variants pv
JOIN products p ON p.id = pv.product_id
WHERE p.is_active = true
  AND (? = '' OR p.category_id IN (SELECT c.id FROM categories c WHERE c.url_slug = ?))
ORDER BY pv.color`, categorySlug, categorySlug).
		Scan(&summary.Colors).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
SELECT DISTINCT size
FROM products p, unnest(p.available_sizes) AS size
WHERE p.is_active = true
  AND (? = '' OR p.category_id IN (SELECT c.id FROM categories c WHERE c.url_slug = ?))
ORDER BY size`, categorySlug, categorySlug).
		Scan(&summary.Sizes).Error
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// ListCategories returns every category ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
