package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	pkgerrors "github.com/lmorales-dev/vestra-backend/pkg/errors"
	"github.com/lmorales-dev/vestra-backend/pkg/pagination"
)

// Service exposes the storefront's read-only catalog operations.
type Service interface {
	Browse(ctx context.Context, input BrowseInput) (*BrowseResultDTO, error)
	ProductDetail(ctx context.Context, urlSlug string) (*ProductDetailDTO, error)
	Facets(ctx context.Context, categorySlug string) (*FacetsDTO, error)
	Categories(ctx context.Context) ([]CategoryDTO, error)
}

// BrowseInput carries the listing scope plus the client's filter selections.
type BrowseInput struct {
	CategorySlug string
	Query        string
	FeaturedOnly bool
	Filters      FilterSet
	Cursor       string
	Limit        int
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// Browse loads one page of variant cards and applies the filter selections to
// it. Filtering runs after the page load so the same selections produce the
// same narrowing the client would do against its loaded list.
func (s *service) Browse(ctx context.Context, input BrowseInput) (*BrowseResultDTO, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	page, err := s.repo.ListVariants(ctx, ListInput{
		CategorySlug: input.CategorySlug,
		Query:        input.Query,
		FeaturedOnly: input.FeaturedOnly,
		Cursor:       cursor,
		Limit:        input.Limit,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list catalog variants")
	}

	filtered := ApplyFilters(page.Variants, input.Filters)
	result := &BrowseResultDTO{
		Variants:   make([]VariantDTO, len(filtered)),
		NextCursor: page.NextCursor,
	}
	for i := range filtered {
		result.Variants[i] = NewVariantDTO(&filtered[i])
	}
	return result, nil
}

// ProductDetail loads the product page payload by url slug.
func (s *service) ProductDetail(ctx context.Context, urlSlug string) (*ProductDetailDTO, error) {
	if urlSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
	}
	product, err := s.repo.GetProductBySlug(ctx, urlSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product detail")
	}
	return NewProductDetailDTO(product), nil
}

// Facets reports the filter options for a listing scope.
func (s *service) Facets(ctx context.Context, categorySlug string) (*FacetsDTO, error) {
	summary, err := s.repo.Facets(ctx, categorySlug)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load catalog facets")
	}
	return &FacetsDTO{
		Colors:        summary.Colors,
		Sizes:         summary.Sizes,
		MinPriceCents: summary.MinPriceCents,
		MaxPriceCents: summary.MaxPriceCents,
	}, nil
}

// Categories returns the navigation categories.
func (s *service) Categories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	result := make([]CategoryDTO, len(categories))
	for i := range categories {
		result[i] = *NewCategoryDTO(&categories[i])
	}
	return result, nil
}
