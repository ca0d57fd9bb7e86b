package habits

import (
	"context"
	"encoding/json"

	"github.com/disciplehub/disciplehub/internal/models"
)

// cachedHabits tries to serve the active catalog from the cache.
func (s *Service) cachedHabits(ctx context.Context) ([]models.HabitDefinition, bool) {
	raw, err := s.cache.Get(ctx, catalogCacheKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("Catalog cache read failed, falling back to database")
		return nil, false
	}
	if raw == "" {
		return nil, false
	}

	var defs []models.HabitDefinition
	if err := json.Unmarshal([]byte(raw), &defs); err != nil {
		s.log.Warn().Err(err).Msg("Catalog cache entry corrupt, falling back to database")
		return nil, false
	}
	return defs, true
}

// storeCachedHabits writes the active catalog to the cache.
func (s *Service) storeCachedHabits(ctx context.Context, defs []models.HabitDefinition) {
	raw, err := json.Marshal(defs)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to marshal catalog for caching")
		return
	}
	if err := s.cache.Set(ctx, catalogCacheKey, string(raw), s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Msg("Catalog cache write failed")
	}
}

// InvalidateCatalogCache drops the cached catalog. Called after catalog
// seeding or admin edits.
func (s *Service) InvalidateCatalogCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, catalogCacheKey); err != nil {
		s.log.Warn().Err(err).Msg("Catalog cache invalidation failed")
	}
}
