package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lmorales-dev/vestra-backend/internal/catalog"
	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
)

// CartItemDTO is one cart line with its variant card and extended total.
type CartItemDTO struct {
	ID             uuid.UUID          `json:"id"`
	SelectedSize   string             `json:"selected_size"`
	Quantity       int                `json:"quantity"`
	Variant        catalog.VariantDTO `json:"variant"`
	LineTotalCents int64              `json:"line_total_cents"`
	CreatedAt      time.Time          `json:"created_at"`
}

// CartDTO is the whole cart payload.
type CartDTO struct {
	Items         []CartItemDTO `json:"items"`
	ItemCount     int           `json:"item_count"`
	SubtotalCents int64         `json:"subtotal_cents"`
}

// LineTotalCents extends one cart line at the product's effective price.
func LineTotalCents(item *models.CartItem) int64 {
	unit := decimal.NewFromInt(int64(item.Variant.Product.EffectivePriceCents()))
	return unit.Mul(decimal.NewFromInt(int64(item.Quantity))).IntPart()
}

// NewCartItemDTO builds one cart line payload. The variant and product must be
// preloaded on the model.
func NewCartItemDTO(item *models.CartItem) CartItemDTO {
	return CartItemDTO{
		ID:             item.ID,
		SelectedSize:   item.SelectedSize,
		Quantity:       item.Quantity,
		Variant:        catalog.NewVariantDTO(&item.Variant),
		LineTotalCents: LineTotalCents(item),
		CreatedAt:      item.CreatedAt,
	}
}

// NewCartDTO builds the cart payload with the summed subtotal.
func NewCartDTO(items []models.CartItem) *CartDTO {
	dto := &CartDTO{Items: make([]CartItemDTO, len(items))}
	subtotal := decimal.Zero
	for i := range items {
		line := NewCartItemDTO(&items[i])
		dto.Items[i] = line
		dto.ItemCount += items[i].Quantity
		subtotal = subtotal.Add(decimal.NewFromInt(line.LineTotalCents))
	}
	dto.SubtotalCents = subtotal.IntPart()
	return dto
}
