package cart

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
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

func mustCreateCartFixtures(t *testing.T, tx *gorm.DB) (*models.User, *models.ProductVariant) {
	t.Helper()

	user := &models.User{
		Email: "cart_test_" + uuid.NewString() + "@example.com",
		Name:  "Cart Tester",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}

	product := &models.Product{
		Name:           "Boxy Tee",
		PriceCents:     2900,
		AvailableSizes: pq.StringArray{"S", "M", "L"},
		IsActive:       true,
		Gender:         "men",
		URLSlug:        "boxy-tee-" + uuid.NewString(),
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create test product: %v", err)
	}

	variant := &models.ProductVariant{
		ProductID: product.ID,
		Color:     "white",
	}
	if err := tx.Create(variant).Error; err != nil {
		t.Fatalf("create test variant: %v", err)
	}
	return user, variant
}

func TestRepositoryUpsertCollapsesDuplicateAdds(t *testing.T) {
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
	user, variant := mustCreateCartFixtures(t, tx)

	first, err := repo.UpsertItem(ctx, user.ID, variant.ID, "M", 1)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := repo.UpsertItem(ctx, user.ID, variant.ID, "M", 2)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected duplicate add to reuse row %s, got %s", first.ID, second.ID)
	}
	if second.Quantity != 3 {
		t.Fatalf("expected summed quantity 3, got %d", second.Quantity)
	}

	items, err := repo.ListItems(ctx, user.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected a single cart line, got %d", len(items))
	}
}

func TestRepositoryDistinctSizesStaySeparate(t *testing.T) {
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
	user, variant := mustCreateCartFixtures(t, tx)

	if _, err := repo.UpsertItem(ctx, user.ID, variant.ID, "S", 1); err != nil {
		t.Fatalf("upsert S: %v", err)
	}
	if _, err := repo.UpsertItem(ctx, user.ID, variant.ID, "L", 1); err != nil {
		t.Fatalf("upsert L: %v", err)
	}

	items, err := repo.ListItems(ctx, user.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected two cart lines, got %d", len(items))
	}
}

func TestRepositoryRemoveScopedToUser(t *testing.T) {
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
	owner, variant := mustCreateCartFixtures(t, tx)

	intruder := &models.User{
		Email: "cart_test_" + uuid.NewString() + "@example.com",
		Name:  "Other User",
	}
	if err := tx.Create(intruder).Error; err != nil {
		t.Fatalf("create second user: %v", err)
	}

	item, err := repo.UpsertItem(ctx, owner.ID, variant.ID, "M", 1)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := repo.RemoveItem(ctx, intruder.ID, item.ID); err != nil {
		t.Fatalf("remove as other user: %v", err)
	}
	items, err := repo.ListItems(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 {
		t.Fatal("expected another user's delete to be a no-op")
	}

	if _, err := repo.SetItemQuantity(ctx, intruder.ID, item.ID, 5); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record not found for other user's update, got %v", err)
	}

	if err := repo.RemoveItem(ctx, owner.ID, item.ID); err != nil {
		t.Fatalf("remove as owner: %v", err)
	}
	items, err = repo.ListItems(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 0 {
		t.Fatal("expected owner's delete to clear the line")
	}
}

func TestRepositoryClearCart(t *testing.T) {
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
	user, variant := mustCreateCartFixtures(t, tx)

	if _, err := repo.UpsertItem(ctx, user.ID, variant.ID, "S", 1); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := repo.UpsertItem(ctx, user.ID, variant.ID, "M", 2); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := repo.ClearCart(ctx, user.ID); err != nil {
		t.Fatalf("clear cart: %v", err)
	}
	items, err := repo.ListItems(ctx, user.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(items))
	}
}
