package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	recsvc "github.com/lmorales-dev/vestra-backend/internal/recommendations"
	pkgerrors "github.com/lmorales-dev/vestra-backend/pkg/errors"
)

type stubRecommendationsService struct {
	outfit *recsvc.OutfitDTO
	err    error

	variantID uuid.UUID
}

func (s *stubRecommendationsService) RecommendOutfit(ctx context.Context, userID, variantID uuid.UUID) (*recsvc.OutfitDTO, error) {
	s.variantID = variantID
	return s.outfit, s.err
}

func TestOutfitRecommendationsSuccess(t *testing.T) {
	svc := &stubRecommendationsService{outfit: &recsvc.OutfitDTO{RemainingRequests: 7}}
	handler := OutfitRecommendations(svc, nil)

	variantID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/products/"+variantID.String()+"/outfit", "")
	req = withURLParam(req, "variantId", variantID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.variantID != variantID {
		t.Fatalf("unexpected variant id: %s", svc.variantID)
	}

	var envelope struct {
		Data recsvc.OutfitDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RemainingRequests != 7 {
		t.Fatalf("unexpected remaining: %d", envelope.Data.RemainingRequests)
	}
}

func TestOutfitRecommendationsRateLimited(t *testing.T) {
	svc := &stubRecommendationsService{err: pkgerrors.New(pkgerrors.CodeRateLimit, "styling request limit reached, try again later")}
	handler := OutfitRecommendations(svc, nil)

	variantID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/products/"+variantID.String()+"/outfit", "")
	req = withURLParam(req, "variantId", variantID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestOutfitRecommendationsRejectsBadVariantID(t *testing.T) {
	handler := OutfitRecommendations(&stubRecommendationsService{}, nil)

	req := authedRequest(http.MethodPost, "/api/v1/products/not-a-uuid/outfit", "")
	req = withURLParam(req, "variantId", "not-a-uuid")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
