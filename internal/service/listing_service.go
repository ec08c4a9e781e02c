package service

import (
	"context"

	"github.com/spec-kit/rsvp-service/internal/cache"
	"github.com/spec-kit/rsvp-service/internal/domain"
	"github.com/spec-kit/rsvp-service/internal/repository"
	apperrors "github.com/spec-kit/rsvp-service/pkg/util"
)

// ListingService serves the read path: active guests in confirmation order.
type ListingService struct {
	guests    repository.GuestRepository
	listCache *cache.GuestListCache
}

// NewListingService constructs the service. Cache may be nil.
func NewListingService(guests repository.GuestRepository, listCache *cache.GuestListCache) *ListingService {
	return &ListingService{guests: guests, listCache: listCache}
}

// ListConfirmed returns all active guests. Soft-deleted guests are already
// excluded by the store; no further filtering happens here.
func (s *ListingService) ListConfirmed(ctx context.Context) ([]domain.Guest, error) {
	if guests, ok := s.listCache.Get(ctx); ok {
		return guests, nil
	}

	guests, err := s.guests.ListActive(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(MsgStoreError, err)
	}

	s.listCache.Set(ctx, guests)
	return guests, nil
}
