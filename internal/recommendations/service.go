package recommendations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lmorales-dev/vestra-backend/internal/catalog"
	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
	pkgerrors "github.com/lmorales-dev/vestra-backend/pkg/errors"
	"github.com/lmorales-dev/vestra-backend/pkg/logger"
)

// poolLimit caps how many candidates the prompt lists.
const poolLimit = 200

// OutfitDTO is the styling response: recommended variant cards plus how many
// requests the user has left in the window.
type OutfitDTO struct {
	Products          []catalog.VariantDTO `json:"products"`
	RemainingRequests int                  `json:"remaining_requests"`
}

type catalogReader interface {
	GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	ListStylePool(ctx context.Context, gender string, excludeCategoryID *uuid.UUID, limit int) ([]models.ProductVariant, error)
	ListVariantsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProductVariant, error)
}

type requestLimiter interface {
	Allow(ctx context.Context, userID uuid.UUID) (int, error)
}

type objectGenerator interface {
	GenerateObject(ctx context.Context, systemPrompt, userPrompt string, dest any) error
}

// ServiceParams groups dependencies for the recommendations service.
type ServiceParams struct {
	CatalogRepo catalogReader
	Limiter     requestLimiter
	Generator   objectGenerator
	Logger      *logger.Logger
}

// Service exposes the outfit styling pipeline.
type Service interface {
	RecommendOutfit(ctx context.Context, userID, variantID uuid.UUID) (*OutfitDTO, error)
}

type service struct {
	catalogRepo catalogReader
	limiter     requestLimiter
	generator   objectGenerator
	logg        *logger.Logger
}

// NewService builds a recommendations service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.Limiter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "limiter is required")
	}
	if params.Generator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "generator is required")
	}
	return &service{
		catalogRepo: params.CatalogRepo,
		limiter:     params.Limiter,
		generator:   params.Generator,
		logg:        params.Logger,
	}, nil
}

// RecommendOutfit claims a rate-limit slot, asks the model to style the focal
// variant against same-gender candidates from other categories, and resolves
// the chosen ids back to catalog cards. The focal variant never appears in
// the result and duplicate picks collapse to one.
func (s *service) RecommendOutfit(ctx context.Context, userID, variantID uuid.UUID) (*OutfitDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if variantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}

	remaining, err := s.limiter.Allow(ctx, userID)
	if err != nil {
		return nil, err
	}

	focal, err := s.catalogRepo.GetVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}

	pool, err := s.catalogRepo.ListStylePool(ctx, focal.Product.Gender, focal.Product.CategoryID, poolLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load candidate pool")
	}
	if len(pool) == 0 {
		return &OutfitDTO{Products: []catalog.VariantDTO{}, RemainingRequests: remaining}, nil
	}

	var response outfitResponse
	if err := s.generator.GenerateObject(ctx, systemPrompt, buildOutfitPrompt(focal, pool), &response); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "outfit model call failed", err)
		}
		return nil, pkgerrors.Normalize(err, "styling request failed")
	}

	picks := len(response.RecommendedProducts)
	if picks < minRecommendations || picks > maxRecommendations {
		err := fmt.Errorf("model returned %d recommendations, want %d to %d", picks, minRecommendations, maxRecommendations)
		return nil, pkgerrors.Normalize(err, "styling request failed")
	}

	ids := collectIDs(response, focal.ID)
	if len(ids) == 0 {
		return &OutfitDTO{Products: []catalog.VariantDTO{}, RemainingRequests: remaining}, nil
	}

	// The catalog lookup decides the final order; ids it no longer carries
	// simply come back missing.
	variants, err := s.catalogRepo.ListVariantsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recommended variants")
	}

	products := make([]catalog.VariantDTO, 0, len(variants))
	for i := range variants {
		products = append(products, catalog.NewVariantDTO(&variants[i]))
	}

	return &OutfitDTO{
		Products:          products,
		RemainingRequests: remaining,
	}, nil
}

// collectIDs parses the model's picks, dropping duplicates, unparseable ids,
// and the focal variant itself.
func collectIDs(response outfitResponse, focalID uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(response.RecommendedProducts))
	ids := make([]uuid.UUID, 0, len(response.RecommendedProducts))
	for _, pick := range response.RecommendedProducts {
		id, err := uuid.Parse(pick.ID)
		if err != nil || id == focalID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
