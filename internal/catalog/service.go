package catalog

import (
	"context"
	"errors"
	"fmt"

	"marquee/internal/db"
	"marquee/internal/logger"
	"marquee/internal/models"
)

// ErrNoCatalog is returned when the upstream fetch fails and no snapshot
// exists to fall back on. Callers treat it as "no schedule available".
var ErrNoCatalog = errors.New("no catalog available")

// Service combines the upstream client with the persisted snapshot
type Service struct {
	client *Client
	repos  *db.Repositories
}

// NewService creates a catalog service
func NewService(client *Client, repos *db.Repositories) *Service {
	return &Service{
		client: client,
		repos:  repos,
	}
}

// Refresh fetches the catalog from upstream and replaces the local snapshot.
// The schedule builder only ever sees a successfully fetched catalog; a
// failed fetch leaves the previous snapshot untouched.
func (s *Service) Refresh(ctx context.Context) ([]models.CatalogItem, error) {
	items, err := s.client.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.repos.CatalogItems.ReplaceAll(ctx, items); err != nil {
		// The fetched catalog is still usable this session
		logger.Log.Error().
			Err(err).
			Msg("Failed to persist catalog snapshot")
	}

	return items, nil
}

// Load returns a usable catalog: upstream first, snapshot as fallback. With
// neither available it returns ErrNoCatalog.
func (s *Service) Load(ctx context.Context) ([]models.CatalogItem, error) {
	items, err := s.Refresh(ctx)
	if err == nil {
		return items, nil
	}

	logger.Log.Warn().
		Err(err).
		Msg("Catalog fetch failed, falling back to snapshot")

	snapshot, snapErr := s.repos.CatalogItems.List(ctx)
	if snapErr != nil {
		return nil, fmt.Errorf("failed to load catalog snapshot: %w", snapErr)
	}
	if len(snapshot) == 0 {
		return nil, ErrNoCatalog
	}

	logger.Log.Info().
		Int("item_count", len(snapshot)).
		Msg("Schedule will be built from catalog snapshot")

	return snapshot, nil
}
