package catalog

import (
	"context"

	"github.com/rogerio-castellano/catalog-sync/internal/models"
	"github.com/rogerio-castellano/catalog-sync/internal/resource"
	"go.uber.org/zap"
)

// SyncUnsynced submits every unsynced row, one after the other, without
// its image. Rows the remote accepts are flagged synced; the others are
// left for the next pass. The result is the number of rows synced.
func (s *Service) SyncUnsynced(ctx context.Context) <-chan resource.State[int] {
	return resource.Run(ctx, s.syncUnsynced)
}

func (s *Service) syncUnsynced(ctx context.Context) resource.State[int] {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	report := models.SyncReport{ID: s.newID(), StartedAt: s.now()}
	defer func() {
		report.FinishedAt = s.now()
		s.record(ctx, report)
	}()

	if !s.checker.IsConnected(ctx) {
		report.Error = MsgOffline
		return resource.Error[int](MsgOffline)
	}

	rows, err := s.store.GetUnsynced(ctx)
	if err != nil {
		report.Error = errorMessage(err, fallbackSync)
		return resource.Error[int](report.Error)
	}

	for _, p := range rows {
		report.Attempted++
		_, err := s.remote.AddProduct(ctx, models.NewProduct{
			Name:  p.Name,
			Type:  p.Type,
			Price: p.Price.String(),
			Tax:   p.Tax.String(),
		})
		if err != nil {
			report.Failed++
			zap.L().Debug("deferred sync of product failed", zap.Int("id", p.ID), zap.Error(err))
			continue
		}

		p.Synced = true
		if _, err := s.store.Update(context.WithoutCancel(ctx), p); err != nil {
			report.Failed++
			zap.L().Debug("flagging product synced failed", zap.Int("id", p.ID), zap.Error(err))
			continue
		}
		report.Synced++
	}

	if report.Attempted > 0 {
		zap.L().Info("deferred sync finished",
			zap.Int("attempted", report.Attempted),
			zap.Int("synced", report.Synced),
			zap.Int("failed", report.Failed))
	}
	return resource.Success(report.Synced)
}

func (s *Service) record(ctx context.Context, r models.SyncReport) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(context.WithoutCancel(ctx), r); err != nil {
		zap.L().Warn("recording sync report failed", zap.String("id", r.ID), zap.Error(err))
	}
}
