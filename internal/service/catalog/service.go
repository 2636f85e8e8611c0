package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/prettystyles/booking-api/internal/model"
	"github.com/prettystyles/booking-api/internal/repository"
)

const (
	cacheTTL      = 5 * time.Minute
	cacheListKey  = "catalog:list"
	cacheEntryKey = "catalog:service:"
)

// Service serves the braiding service catalog. The catalog changes rarely and
// is read on every booking, so entries are cached in-process.
type Service struct {
	repo  repository.CatalogRepository
	cache *cache.Cache
}

func NewService(repo repository.CatalogRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, 10*time.Minute),
	}
}

// GetService resolves a catalog entry by id.
func (s *Service) GetService(ctx context.Context, id string) (*model.CatalogService, error) {
	if cached, ok := s.cache.Get(cacheEntryKey + id); ok {
		return cached.(*model.CatalogService), nil
	}

	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog service: %w", err)
	}

	s.cache.Set(cacheEntryKey+id, svc, cache.DefaultExpiration)
	return svc, nil
}

func (s *Service) ListServices(ctx context.Context) ([]*model.CatalogService, error) {
	if cached, ok := s.cache.Get(cacheListKey); ok {
		return cached.([]*model.CatalogService), nil
	}

	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog services: %w", err)
	}

	s.cache.Set(cacheListKey, services, cache.DefaultExpiration)
	return services, nil
}

// SlotLabels returns the fixed set of bookable appointment times.
func (s *Service) SlotLabels() []string {
	return model.SlotLabels
}
