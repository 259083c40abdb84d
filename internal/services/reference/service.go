// Package reference serves the seeded cancer and primary site catalogues.
package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/argo-platform/program-service/internal/db/models"
	"github.com/argo-platform/program-service/internal/repository"
)

// DefaultCacheSize bounds each name to id cache.
const DefaultCacheSize = 256

// ErrUnknownReference is returned when a name matches no seeded row.
var ErrUnknownReference = errors.New("unknown reference")

// Service lists reference data and resolves names to ids.
//
// Resolved names are cached; reference rows only change through migrations,
// so entries never go stale while the process runs. Misses are not cached.
type Service struct {
	repo    repository.ReferenceRepository
	cancers *lru.Cache[string, uuid.UUID]
	sites   *lru.Cache[string, uuid.UUID]
}

// NewService creates a reference service. cacheSize <= 0 selects DefaultCacheSize.
func NewService(repo repository.ReferenceRepository, cacheSize int) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cancers, err := lru.New[string, uuid.UUID](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cancer cache: %w", err)
	}
	sites, err := lru.New[string, uuid.UUID](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create primary site cache: %w", err)
	}
	return &Service{repo: repo, cancers: cancers, sites: sites}, nil
}

// ListCancers returns every cancer ordered by name.
func (s *Service) ListCancers(ctx context.Context) ([]models.Cancer, error) {
	return s.repo.ListCancers(ctx)
}

// ListPrimarySites returns every primary site ordered by name.
func (s *Service) ListPrimarySites(ctx context.Context) ([]models.PrimarySite, error) {
	return s.repo.ListPrimarySites(ctx)
}

// ResolveCancers maps cancer names to ids, preserving order.
func (s *Service) ResolveCancers(ctx context.Context, names []string) ([]uuid.UUID, error) {
	return resolve(ctx, "cancer", names, s.cancers, func(ctx context.Context, name string) (uuid.UUID, error) {
		c, err := s.repo.GetCancerByName(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		return c.ID, nil
	})
}

// ResolvePrimarySites maps primary site names to ids, preserving order.
func (s *Service) ResolvePrimarySites(ctx context.Context, names []string) ([]uuid.UUID, error) {
	return resolve(ctx, "primary site", names, s.sites, func(ctx context.Context, name string) (uuid.UUID, error) {
		ps, err := s.repo.GetPrimarySiteByName(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		return ps.ID, nil
	})
}

func resolve(ctx context.Context, kind string, names []string, cache *lru.Cache[string, uuid.UUID], lookup func(context.Context, string) (uuid.UUID, error)) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if id, ok := cache.Get(name); ok {
			ids = append(ids, id)
			continue
		}

		id, err := lookup(ctx, name)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s %q", ErrUnknownReference, kind, name)
			}
			return nil, fmt.Errorf("resolve %s %q: %w", kind, name, err)
		}
		cache.Add(name, id)
		ids = append(ids, id)
	}
	return ids, nil
}
