package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lmorales-dev/vestra-backend/api/responses"
	"github.com/lmorales-dev/vestra-backend/api/validators"
	catalogsvc "github.com/lmorales-dev/vestra-backend/internal/catalog"
	pkgerrors "github.com/lmorales-dev/vestra-backend/pkg/errors"
	"github.com/lmorales-dev/vestra-backend/pkg/logger"
	"github.com/lmorales-dev/vestra-backend/pkg/pagination"
)

// CatalogBrowse serves one page of variant cards with filter selections applied.
func CatalogBrowse(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		minPrice, err := validators.ParseQueryInt(r, "min_price_cents", 0, 0, 100_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		maxPrice, err := validators.ParseQueryInt(r, "max_price_cents", 0, 0, 100_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalogsvc.BrowseInput{
			CategorySlug: validators.SanitizeString(r.URL.Query().Get("category"), 120),
			Query:        validators.SanitizeString(r.URL.Query().Get("q"), 200),
			FeaturedOnly: validators.ParseQueryBool(r, "featured"),
			Cursor:       strings.TrimSpace(r.URL.Query().Get("cursor")),
			Limit:        limit,
			Filters: catalogsvc.FilterSet{
				Colors:        validators.ParseQueryCSV(r, "colors"),
				Sizes:         validators.ParseQueryCSV(r, "sizes"),
				MinPriceCents: minPrice,
				MaxPriceCents: maxPrice,
				SortBy:        catalogsvc.ParseSortKey(r.URL.Query().Get("sort")),
			},
		}

		result, err := svc.Browse(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// CatalogProductDetail serves a product page with its variants by URL slug.
func CatalogProductDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		slug := validators.SanitizeString(chi.URLParam(r, "slug"), 200)
		detail, err := svc.ProductDetail(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// CatalogFacets serves the filter facet summary for a listing scope.
func CatalogFacets(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		facets, err := svc.Facets(r.Context(), validators.SanitizeString(r.URL.Query().Get("category"), 120))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, facets)
	}
}

func CatalogCategories(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}
