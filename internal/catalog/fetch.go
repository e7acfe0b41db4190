package catalog

import (
	"context"

	"github.com/rogerio-castellano/catalog-sync/internal/models"
	"github.com/rogerio-castellano/catalog-sync/internal/resource"
	"go.uber.org/zap"
)

// FetchAndSave replaces the local table with the remote catalog. Offline
// it touches neither the network nor the store.
func (s *Service) FetchAndSave(ctx context.Context) <-chan resource.State[[]models.Product] {
	return resource.Run(ctx, s.fetchAndSave)
}

func (s *Service) fetchAndSave(ctx context.Context) resource.State[[]models.Product] {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	if !s.checker.IsConnected(ctx) {
		return resource.Error[[]models.Product](MsgOfflineCached)
	}

	products, err := s.remote.ListProducts(ctx)
	if err != nil {
		zap.L().Warn("fetching remote catalog failed", zap.Error(err))
		return resource.Error[[]models.Product](errorMessage(err, fallbackFetch))
	}

	now := s.now()
	for i := range products {
		products[i].ID = 0
		products[i].Synced = true
		products[i].CreatedAt = now
	}

	if err := s.store.ReplaceAll(ctx, products, s.keepUnsynced); err != nil {
		zap.L().Error("replacing local catalog failed", zap.Error(err))
		return resource.Error[[]models.Product](errorMessage(err, fallbackFetch))
	}

	zap.L().Info("catalog refreshed", zap.Int("products", len(products)))
	return resource.Success(products)
}
