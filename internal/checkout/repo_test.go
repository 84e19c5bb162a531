package checkout

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("VESTRA_DB_DSN")
	if dsn == "" {
		t.Skip("VESTRA_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateOrderFixtures(t *testing.T, tx *gorm.DB) (*models.User, *models.ProductVariant) {
	t.Helper()

	user := &models.User{
		Email: "order_test_" + uuid.NewString() + "@example.com",
		Name:  "Order Tester",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}

	product := &models.Product{
		Name:       "Wool Coat",
		PriceCents: 12000,
		IsActive:   true,
		Gender:     "women",
		URLSlug:    "wool-coat-" + uuid.NewString(),
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create test product: %v", err)
	}

	variant := &models.ProductVariant{ProductID: product.ID, Color: "camel"}
	if err := tx.Create(variant).Error; err != nil {
		t.Fatalf("create test variant: %v", err)
	}
	return user, variant
}

func TestRepositoryOrderFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	user, variant := mustCreateOrderFixtures(t, tx)

	order := &models.Order{
		UserID:        user.ID,
		Email:         user.Email,
		FullName:      "Order Tester",
		AddressLine1:  "1 Main St",
		City:          "Springfield",
		State:         "IL",
		PostalCode:    "62701",
		Country:       "US",
		SubtotalCents: 12000,
		Status:        models.OrderStatusPending,
		Items: []models.OrderItem{
			{
				ProductVariantID: variant.ID,
				ProductName:      "Wool Coat",
				Color:            "camel",
				SelectedSize:     "M",
				Quantity:         1,
				UnitPriceCents:   12000,
			},
		},
	}

	created, err := repo.CreateOrder(ctx, order)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated order id")
	}

	loaded, err := repo.FindByID(ctx, user.ID, created.ID)
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if len(loaded.Items) != 1 {
		t.Fatalf("expected 1 order item, got %d", len(loaded.Items))
	}
	if loaded.Items[0].ProductName != "Wool Coat" {
		t.Fatalf("expected frozen product name, got %q", loaded.Items[0].ProductName)
	}

	// Orders are invisible to other users.
	if _, err := repo.FindByID(ctx, uuid.New(), created.ID); err == nil {
		t.Fatal("expected another user's lookup to miss")
	}

	list, err := repo.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 order, got %d", len(list))
	}
}
