// internal/catalog/service.go
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/config"
	"github.com/sirupsen/logrus"
)

// Service resolves catalog reads through an ordered list of data sources:
// the remote products service, the cache of the last successful remote
// response, and the bundled static snapshot. The first source to succeed
// wins and the result is tagged with its tier. Degradation is logged, never
// surfaced to callers as an error.
type Service struct {
	remote *remoteSource
	cache  Cache
	static *staticSource
	logger *logrus.Logger

	// generation guards cache writes so a slow remote response that was
	// superseded by a newer one cannot overwrite the fresher cache entry.
	mu         sync.Mutex
	generation uint64
	written    map[string]uint64
}

// NewService creates a new catalog service
func NewService(cfg *config.Config, cache Cache, logger *logrus.Logger) (*Service, error) {
	static, err := newStaticSource()
	if err != nil {
		return nil, fmt.Errorf("failed to load static catalog tier: %w", err)
	}

	return &Service{
		remote:  newRemoteSource(cfg.Services.ProductsBaseURL, cfg.Services.Timeout),
		cache:   cache,
		static:  static,
		logger:  logger,
		written: make(map[string]uint64),
	}, nil
}

// ListProducts lists products for a filter. The returned error is reserved
// for programming mistakes; degraded availability is absorbed by the
// fallback tiers and the static tier cannot fail.
func (s *Service) ListProducts(ctx context.Context, filter Filter) (Result, error) {
	generation := s.nextGeneration()

	products, err := s.remote.fetch(ctx, filter)
	if err == nil {
		fetchedAt := time.Now().UTC()
		s.rememberResponse(ctx, generation, filter, products, fetchedAt)
		return Result{Products: products, Tier: TierRemote, FetchedAt: fetchedAt}, nil
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id": filter.TenantID,
		"error":     err.Error(),
	}).Warn("Catalog service unavailable, serving fallback tier")

	return s.fallback(ctx, filter), nil
}

// GetProduct returns the product with the given id, or nil when absent.
// There is no dedicated single-item remote path; this layers on ListProducts.
func (s *Service) GetProduct(ctx context.Context, id int) (*Product, error) {
	result, err := s.ListProducts(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	for i := range result.Products {
		if result.Products[i].ID == id {
			product := result.Products[i]
			return &product, nil
		}
	}
	return nil, nil
}

// SearchProducts searches products by name. The remote /buscar endpoint is
// authoritative; fallback tiers apply case-insensitive substring matching
// over the product name, mirroring the remote semantics.
func (s *Service) SearchProducts(ctx context.Context, searchText, tenantID string) (Result, error) {
	generation := s.nextGeneration()
	filter := Filter{Search: searchText, TenantID: tenantID}

	products, err := s.remote.search(ctx, searchText, tenantID)
	if err == nil {
		fetchedAt := time.Now().UTC()
		s.rememberResponse(ctx, generation, filter, products, fetchedAt)
		return Result{Products: products, Tier: TierRemote, FetchedAt: fetchedAt}, nil
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"search":    searchText,
		"error":     err.Error(),
	}).Warn("Catalog search unavailable, serving fallback tier")

	return s.fallback(ctx, filter), nil
}

// fallback serves the cache tier when a matching entry exists, the static
// snapshot otherwise.
func (s *Service) fallback(ctx context.Context, filter Filter) Result {
	if s.cache != nil {
		if entry, ok := s.cache.Get(ctx, filter.Fingerprint()); ok {
			return Result{Products: entry.Products, Tier: TierCache, FetchedAt: entry.FetchedAt}
		}
	}
	return Result{
		Products:  s.static.fetch(filter),
		Tier:      TierStatic,
		FetchedAt: time.Now().UTC(),
	}
}

func (s *Service) nextGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// rememberResponse overwrites the cache with a successful remote response,
// unless a response from a later request already wrote this filter set.
func (s *Service) rememberResponse(ctx context.Context, generation uint64, filter Filter, products []Product, fetchedAt time.Time) {
	if s.cache == nil {
		return
	}

	fingerprint := filter.Fingerprint()

	s.mu.Lock()
	if s.written[fingerprint] > generation {
		s.mu.Unlock()
		s.logger.WithField("fingerprint", fingerprint).Debug("Discarding superseded catalog response")
		return
	}
	s.written[fingerprint] = generation
	s.mu.Unlock()

	entry := cachedList{Filter: filter, Products: products, FetchedAt: fetchedAt}
	if err := s.cache.Put(ctx, fingerprint, entry); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to update catalog cache")
	}
}
