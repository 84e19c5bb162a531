package catalog

import (
	"slices"
	"sort"

	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByPriceAsc  SortKey = "price-asc"
	SortByPriceDesc SortKey = "price-desc"
)

// ParseSortKey maps a query value onto a known sort, defaulting to name.
func ParseSortKey(value string) SortKey {
	switch SortKey(value) {
	case SortByPriceAsc:
		return SortByPriceAsc
	case SortByPriceDesc:
		return SortByPriceDesc
	default:
		return SortByName
	}
}

// FilterSet captures the storefront's color/size/price/sort selections.
// A zero MaxPriceCents means no upper bound.
type FilterSet struct {
	Colors        []string
	Sizes         []string
	MinPriceCents int
	MaxPriceCents int
	SortBy        SortKey
}

// ApplyFilters narrows and orders the variant list. The input is never
// mutated; the steps run in a fixed order (colors, sizes, price, sort) and
// re-applying the same filter set to its own output is a no-op.
func ApplyFilters(variants []models.ProductVariant, filters FilterSet) []models.ProductVariant {
	result := make([]models.ProductVariant, 0, len(variants))

	for _, variant := range variants {
		if len(filters.Colors) > 0 && !slices.Contains(filters.Colors, variant.Color) {
			continue
		}
		if len(filters.Sizes) > 0 && !anySizeMatches(variant.Product.AvailableSizes, filters.Sizes) {
			continue
		}
		price := variant.Product.EffectivePriceCents()
		if price < filters.MinPriceCents {
			continue
		}
		if filters.MaxPriceCents > 0 && price > filters.MaxPriceCents {
			continue
		}
		result = append(result, variant)
	}

	switch filters.SortBy {
	case SortByPriceAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Product.EffectivePriceCents() < result[j].Product.EffectivePriceCents()
		})
	case SortByPriceDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Product.EffectivePriceCents() > result[j].Product.EffectivePriceCents()
		})
	default:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Product.Name < result[j].Product.Name
		})
	}

	return result
}

func anySizeMatches(available []string, selected []string) bool {
	for _, size := range available {
		if slices.Contains(selected, size) {
			return true
		}
	}
	return false
}
