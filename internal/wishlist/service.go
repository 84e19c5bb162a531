package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lmorales-dev/vestra-backend/internal/catalog"
	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
	pkgerrors "github.com/lmorales-dev/vestra-backend/pkg/errors"
)

// WishlistItemDTO is one saved variant with its card payload.
type WishlistItemDTO struct {
	ID        uuid.UUID          `json:"id"`
	Variant   catalog.VariantDTO `json:"variant"`
	CreatedAt time.Time          `json:"created_at"`
}

// WishlistDTO is the whole wishlist payload.
type WishlistDTO struct {
	Items []WishlistItemDTO `json:"items"`
}

type variantLoader interface {
	GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
	CatalogRepo  variantLoader
}

// Service exposes business rules for wishlist management.
type Service interface {
	GetWishlist(ctx context.Context, userID uuid.UUID) (*WishlistDTO, error)
	AddItem(ctx context.Context, userID, variantID uuid.UUID) (*WishlistDTO, error)
	RemoveItem(ctx context.Context, userID, entryID uuid.UUID) (*WishlistDTO, error)
	RemoveVariant(ctx context.Context, userID, variantID uuid.UUID) (*WishlistDTO, error)
}

type service struct {
	wishlistRepo *Repository
	catalogRepo  variantLoader
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		wishlistRepo: params.WishlistRepo,
		catalogRepo:  params.CatalogRepo,
	}, nil
}

// GetWishlist returns the user's saved variants.
func (s *service) GetWishlist(ctx context.Context, userID uuid.UUID) (*WishlistDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	items, err := s.wishlistRepo.ListItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist")
	}
	return newWishlistDTO(items), nil
}

// AddItem ensures the variant exists and saves it. Duplicate saves are a
// silent no-op.
func (s *service) AddItem(ctx context.Context, userID, variantID uuid.UUID) (*WishlistDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if variantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if _, err := s.catalogRepo.GetVariant(ctx, variantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if err := s.wishlistRepo.AddItem(ctx, userID, variantID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
	}
	return s.GetWishlist(ctx, userID)
}

// RemoveItem drops the entry regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, userID, entryID uuid.UUID) (*WishlistDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if err := s.wishlistRepo.RemoveItem(ctx, userID, entryID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return s.GetWishlist(ctx, userID)
}

// RemoveVariant drops the entry for a variant without needing the entry id.
// Removing a variant that was never saved is a silent no-op.
func (s *service) RemoveVariant(ctx context.Context, userID, variantID uuid.UUID) (*WishlistDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if variantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if err := s.wishlistRepo.RemoveByVariant(ctx, userID, variantID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist variant")
	}
	return s.GetWishlist(ctx, userID)
}

func newWishlistDTO(items []models.WishlistItem) *WishlistDTO {
	dto := &WishlistDTO{Items: make([]WishlistItemDTO, len(items))}
	for i := range items {
		dto.Items[i] = WishlistItemDTO{
			ID:        items[i].ID,
			Variant:   catalog.NewVariantDTO(&items[i].Variant),
			CreatedAt: items[i].CreatedAt,
		}
	}
	return dto
}
