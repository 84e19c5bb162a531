package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
)

func mustCreateTestCategory(t *testing.T, tx *gorm.DB, name, slug string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:    name,
		URLSlug: slug,
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create test category: %v", err)
	}
	return category
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, categoryID *uuid.UUID, name, slug, gender string, priceCents int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:           name,
		PriceCents:     priceCents,
		CategoryID:     categoryID,
		AvailableSizes: pq.StringArray{"S", "M", "L"},
		IsActive:       true,
		Gender:         gender,
		URLSlug:        slug,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create test product: %v", err)
	}
	return product
}

func mustCreateTestVariant(t *testing.T, tx *gorm.DB, productID uuid.UUID, color string) *models.ProductVariant {
	t.Helper()

	variant := &models.ProductVariant{
		ProductID: productID,
		Color:     color,
		ImageURLs: pq.StringArray{"https://cdn.example.com/" + color + ".jpg"},
	}
	if err := tx.Create(variant).Error; err != nil {
		t.Fatalf("create test variant: %v", err)
	}
	return variant
}
