package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
)

func buildTestCartItem(name string, priceCents int, discounted *int, quantity int, size string) models.CartItem {
	return models.CartItem{
		ID:               uuid.New(),
		ProductVariantID: uuid.New(),
		SelectedSize:     size,
		Quantity:         quantity,
		Variant: models.ProductVariant{
			Color: "black",
			Product: models.Product{
				Name:                 name,
				PriceCents:           priceCents,
				DiscountedPriceCents: discounted,
			},
		},
	}
}

func TestBuildOrderFreezesEffectivePrices(t *testing.T) {
	discounted := 4500
	items := []models.CartItem{
		buildTestCartItem("Wool Coat", 12000, nil, 1, "M"),
		buildTestCartItem("Marked Down Tee", 9900, &discounted, 2, "L"),
	}

	order := buildOrder(uuid.New(), ShippingInput{
		Email:        "ada@example.com",
		FullName:     "Ada Lovelace",
		AddressLine1: "1 Analytical Way",
		City:         "London",
		State:        "LDN",
		PostalCode:   "E1 6AN",
		Country:      "GB",
	}, items)

	require.Len(t, order.Items, 2)
	assert.Equal(t, 12000, order.Items[0].UnitPriceCents)
	assert.Equal(t, 4500, order.Items[1].UnitPriceCents)
	assert.Equal(t, "Marked Down Tee", order.Items[1].ProductName)
	assert.Equal(t, 12000+2*4500, order.SubtotalCents)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestBuildOrderKeepsSelectedSizes(t *testing.T) {
	items := []models.CartItem{
		buildTestCartItem("Boxy Tee", 2900, nil, 3, "S"),
	}

	order := buildOrder(uuid.New(), ShippingInput{}, items)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "S", order.Items[0].SelectedSize)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, items[0].ProductVariantID, order.Items[0].ProductVariantID)
}

func TestNewServiceValidatesParams(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestNewOrderDTOMapsItems(t *testing.T) {
	order := &models.Order{
		ID:            uuid.New(),
		Email:         "ada@example.com",
		Status:        models.OrderStatusPending,
		SubtotalCents: 5800,
		Items: []models.OrderItem{
			{ID: uuid.New(), ProductName: "Boxy Tee", SelectedSize: "S", Quantity: 2, UnitPriceCents: 2900},
		},
	}

	dto := newOrderDTO(order)

	assert.Equal(t, order.ID, dto.ID)
	assert.Equal(t, "pending", dto.Status)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, "Boxy Tee", dto.Items[0].ProductName)
}
