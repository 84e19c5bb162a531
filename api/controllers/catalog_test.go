package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogsvc "github.com/lmorales-dev/vestra-backend/internal/catalog"
	pkgerrors "github.com/lmorales-dev/vestra-backend/pkg/errors"
)

type stubCatalogService struct {
	browse     *catalogsvc.BrowseResultDTO
	detail     *catalogsvc.ProductDetailDTO
	facets     *catalogsvc.FacetsDTO
	categories []catalogsvc.CategoryDTO
	err        error

	browseInput catalogsvc.BrowseInput
}

func (s *stubCatalogService) Browse(ctx context.Context, input catalogsvc.BrowseInput) (*catalogsvc.BrowseResultDTO, error) {
	s.browseInput = input
	return s.browse, s.err
}

func (s *stubCatalogService) ProductDetail(ctx context.Context, urlSlug string) (*catalogsvc.ProductDetailDTO, error) {
	return s.detail, s.err
}

func (s *stubCatalogService) Facets(ctx context.Context, categorySlug string) (*catalogsvc.FacetsDTO, error) {
	return s.facets, s.err
}

func (s *stubCatalogService) Categories(ctx context.Context) ([]catalogsvc.CategoryDTO, error) {
	return s.categories, s.err
}

func TestCatalogBrowseParsesQuery(t *testing.T) {
	svc := &stubCatalogService{browse: &catalogsvc.BrowseResultDTO{}}
	handler := CatalogBrowse(svc, nil)

	target := "/api/v1/products?category=jackets&colors=Black,Navy&sizes=M,L&min_price_cents=2000&max_price_cents=9000&sort=price-asc&featured=true&limit=12"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	input := svc.browseInput
	if input.CategorySlug != "jackets" {
		t.Fatalf("unexpected category: %q", input.CategorySlug)
	}
	if len(input.Filters.Colors) != 2 || input.Filters.Colors[0] != "Black" {
		t.Fatalf("unexpected colors: %v", input.Filters.Colors)
	}
	if len(input.Filters.Sizes) != 2 {
		t.Fatalf("unexpected sizes: %v", input.Filters.Sizes)
	}
	if input.Filters.MinPriceCents != 2000 || input.Filters.MaxPriceCents != 9000 {
		t.Fatalf("unexpected price bounds: %d %d", input.Filters.MinPriceCents, input.Filters.MaxPriceCents)
	}
	if input.Filters.SortBy != catalogsvc.SortByPriceAsc {
		t.Fatalf("unexpected sort: %s", input.Filters.SortBy)
	}
	if !input.FeaturedOnly || input.Limit != 12 {
		t.Fatalf("unexpected scope: featured=%v limit=%d", input.FeaturedOnly, input.Limit)
	}
}

func TestCatalogBrowseRejectsBadLimit(t *testing.T) {
	handler := CatalogBrowse(&stubCatalogService{browse: &catalogsvc.BrowseResultDTO{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=abc", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCatalogProductDetailNotFound(t *testing.T) {
	handler := CatalogProductDetail(&stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/missing", nil), "slug", "missing")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCatalogFacetsSuccess(t *testing.T) {
	facets := &catalogsvc.FacetsDTO{
		Colors:        []string{"Black", "Navy"},
		Sizes:         []string{"M", "L"},
		MinPriceCents: 2000,
		MaxPriceCents: 9000,
	}
	handler := CatalogFacets(&stubCatalogService{facets: facets}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/facets?category=jackets", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data catalogsvc.FacetsDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Colors) != 2 || envelope.Data.MaxPriceCents != 9000 {
		t.Fatalf("unexpected facets: %+v", envelope.Data)
	}
}
