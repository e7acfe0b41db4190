package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/rogerio-castellano/catalog-sync/internal/models"
	"github.com/rogerio-castellano/catalog-sync/internal/resource"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AddProduct submits in to the remote when online and stores it as synced.
// Offline it stores the product unsynced, keeping the local image path, and
// reports success so the user can carry on.
func (s *Service) AddProduct(ctx context.Context, in models.NewProduct) <-chan resource.State[models.AddProductResponse] {
	return resource.Run(ctx, func(ctx context.Context) resource.State[models.AddProductResponse] {
		return s.addProduct(ctx, in)
	})
}

func (s *Service) addProduct(ctx context.Context, in models.NewProduct) resource.State[models.AddProductResponse] {
	fail := func(err error) resource.State[models.AddProductResponse] {
		return resource.Error[models.AddProductResponse](errorMessage(err, fallbackAdd))
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil {
		return fail(fmt.Errorf("invalid price %q", in.Price))
	}
	tax, err := decimal.NewFromString(strings.TrimSpace(in.Tax))
	if err != nil {
		return fail(fmt.Errorf("invalid tax %q", in.Tax))
	}

	row := models.Product{
		Name:      in.Name,
		Type:      in.Type,
		Price:     price,
		Tax:       tax,
		CreatedAt: s.now(),
	}

	if !s.checker.IsConnected(ctx) {
		if in.ImagePath != "" {
			path := in.ImagePath
			row.Image = &path
		}
		saved, err := s.store.Insert(ctx, row)
		if err != nil {
			zap.L().Error("saving offline product failed", zap.String("name", in.Name), zap.Error(err))
			return fail(err)
		}
		zap.L().Info("product saved offline", zap.Int("id", saved.ID), zap.String("name", saved.Name))
		return resource.Success(models.AddProductResponse{
			Success:        true,
			Message:        MsgSavedOffline,
			ProductDetails: &saved,
		})
	}

	resp, err := s.remote.AddProduct(ctx, in)
	if err != nil {
		zap.L().Warn("remote add failed", zap.String("name", in.Name), zap.Error(err))
		return fail(err)
	}

	if resp.ProductDetails != nil {
		row.Image = resp.ProductDetails.Image
	}
	// the remote has the product now; a cancelled caller must not lose the local copy
	row.Synced = true
	if _, err := s.store.Insert(context.WithoutCancel(ctx), row); err != nil {
		zap.L().Error("saving added product failed", zap.String("name", in.Name), zap.Error(err))
		return fail(err)
	}
	return resource.Success(resp)
}
