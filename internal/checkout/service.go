package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lmorales-dev/vestra-backend/internal/cart"
	"github.com/lmorales-dev/vestra-backend/pkg/db"
	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
	pkgerrors "github.com/lmorales-dev/vestra-backend/pkg/errors"
)

// ShippingInput is the validated checkout form payload.
type ShippingInput struct {
	Email        string
	FullName     string
	AddressLine1 string
	AddressLine2 *string
	City         string
	State        string
	PostalCode   string
	Country      string
	Phone        *string
}

// OrderItemDTO is one frozen order line.
type OrderItemDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductName    string    `json:"product_name"`
	Color          string    `json:"color"`
	SelectedSize   string    `json:"selected_size"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int       `json:"unit_price_cents"`
}

// OrderDTO is the captured order payload.
type OrderDTO struct {
	ID            uuid.UUID      `json:"id"`
	Email         string         `json:"email"`
	FullName      string         `json:"full_name"`
	AddressLine1  string         `json:"address_line1"`
	AddressLine2  *string        `json:"address_line2,omitempty"`
	City          string         `json:"city"`
	State         string         `json:"state"`
	PostalCode    string         `json:"postal_code"`
	Country       string         `json:"country"`
	Phone         *string        `json:"phone,omitempty"`
	SubtotalCents int            `json:"subtotal_cents"`
	Status        string         `json:"status"`
	Items         []OrderItemDTO `json:"items"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	OrderRepo *Repository
	CartRepo  *cart.Repository
	DBClient  *db.Client
}

// Service exposes checkout capture and order reads.
type Service interface {
	SubmitOrder(ctx context.Context, userID uuid.UUID, input ShippingInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
}

type service struct {
	orderRepo *Repository
	cartRepo  *cart.Repository
	dbClient  *db.Client
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.DBClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	return &service{
		orderRepo: params.OrderRepo,
		cartRepo:  params.CartRepo,
		dbClient:  params.DBClient,
	}, nil
}

// SubmitOrder snapshots the cart into an order and clears it, all in one
// transaction. Product names and effective prices are frozen on the order
// lines, and an empty cart is rejected before anything is written.
func (s *service) SubmitOrder(ctx context.Context, userID uuid.UUID, input ShippingInput) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}

	var captured *models.Order
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		items, err := cartRepo.ListItems(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		order := buildOrder(userID, input, items)
		if _, err := s.orderRepo.WithTx(tx).CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := cartRepo.ClearCart(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		captured = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := newOrderDTO(captured)
	return &dto, nil
}

// GetOrder loads one of the user's orders.
func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	order, err := s.orderRepo.FindByID(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	dto := newOrderDTO(order)
	return &dto, nil
}

// ListOrders returns the user's order history.
func (s *service) ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	result := make([]OrderDTO, len(orders))
	for i := range orders {
		result[i] = newOrderDTO(&orders[i])
	}
	return result, nil
}

// buildOrder freezes the current cart into order lines.
func buildOrder(userID uuid.UUID, input ShippingInput, items []models.CartItem) *models.Order {
	order := &models.Order{
		UserID:       userID,
		Email:        input.Email,
		FullName:     input.FullName,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.PostalCode,
		Country:      input.Country,
		Phone:        input.Phone,
		Status:       models.OrderStatusPending,
		Items:        make([]models.OrderItem, len(items)),
	}

	subtotal := decimal.Zero
	for i, item := range items {
		unitPrice := item.Variant.Product.EffectivePriceCents()
		order.Items[i] = models.OrderItem{
			ProductVariantID: item.ProductVariantID,
			ProductName:      item.Variant.Product.Name,
			Color:            item.Variant.Color,
			SelectedSize:     item.SelectedSize,
			Quantity:         item.Quantity,
			UnitPriceCents:   unitPrice,
		}
		subtotal = subtotal.Add(
			decimal.NewFromInt(int64(unitPrice)).Mul(decimal.NewFromInt(int64(item.Quantity))),
		)
	}
	order.SubtotalCents = int(subtotal.IntPart())
	return order
}

func newOrderDTO(order *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:            order.ID,
		Email:         order.Email,
		FullName:      order.FullName,
		AddressLine1:  order.AddressLine1,
		AddressLine2:  order.AddressLine2,
		City:          order.City,
		State:         order.State,
		PostalCode:    order.PostalCode,
		Country:       order.Country,
		Phone:         order.Phone,
		SubtotalCents: order.SubtotalCents,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt,
		Items:         make([]OrderItemDTO, len(order.Items)),
	}
	for i, item := range order.Items {
		dto.Items[i] = OrderItemDTO{
			ID:             item.ID,
			ProductName:    item.ProductName,
			Color:          item.Color,
			SelectedSize:   item.SelectedSize,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		}
	}
	return dto
}
