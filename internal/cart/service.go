package cart

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
	pkgerrors "github.com/lmorales-dev/vestra-backend/pkg/errors"
)

// AddItemInput is the validated payload to add a cart line.
type AddItemInput struct {
	VariantID    uuid.UUID
	SelectedSize string
	Quantity     int
}

type variantLoader interface {
	GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    *Repository
	CatalogRepo variantLoader
}

// Service exposes business rules for cart management.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	cartRepo    *Repository
	catalogRepo variantLoader
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		cartRepo:    params.CartRepo,
		catalogRepo: params.CatalogRepo,
	}, nil
}

// GetCart returns the user's cart with line and subtotal arithmetic done.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	items, err := s.cartRepo.ListItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return NewCartDTO(items), nil
}

// AddItem validates the variant and size, then folds the quantity into the
// user's existing line for that (variant, size) pair. Quantities below one are
// clamped to one rather than rejected.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if input.VariantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if input.SelectedSize == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size is required")
	}

	variant, err := s.catalogRepo.GetVariant(ctx, input.VariantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if !variant.Product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	if !slices.Contains(variant.Product.AvailableSizes, input.SelectedSize) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size not available for this product")
	}

	quantity := clampQuantity(input.Quantity)
	if _, err := s.cartRepo.UpsertItem(ctx, userID, input.VariantID, input.SelectedSize, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return s.GetCart(ctx, userID)
}

// UpdateQuantity overwrites one line's quantity, clamping below-one values to one.
func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}

	if _, err := s.cartRepo.SetItemQuantity(ctx, userID, itemID, clampQuantity(quantity)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	return s.GetCart(ctx, userID)
}

// RemoveItem drops the line regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if err := s.cartRepo.RemoveItem(ctx, userID, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return s.GetCart(ctx, userID)
}

// ClearCart removes every line for the user.
func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if err := s.cartRepo.ClearCart(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func clampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}
